package cmd

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/FluidXR/droidlog/internal/settings"
)

var filterRegex bool

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the saved session settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := openSession()
		st := s.settings

		fmt.Printf("Settings file: %s\n\n", s.path)
		device := "(none)"
		if st.SelectedDeviceValid() {
			device = st.SelectedDeviceID
		}
		fmt.Printf("Selected device:   %s\n", device)
		pkg := "(none)"
		if st.SelectedPackage != nil {
			pkg = st.SelectedPackage.String()
			if !st.SelectedPackageValid() {
				pkg += " (not running)"
			}
		}
		fmt.Printf("Selected package:  %s\n", pkg)
		fmt.Printf("Priority:          %s (%s)\n", st.SelectedPriority, st.SelectedPriority.Letter())
		filter := st.Filter
		if st.FilterIsRegularExpression {
			filter += " (regex)"
		}
		fmt.Printf("Filter:            %s\n", filter)
		fmt.Printf("Known packages:    %d on %d devices\n", st.KnownPackages.Len(), len(st.KnownPackages.Devices()))

		if selected := st.Tags.Selected(); len(selected) > 0 {
			fmt.Printf("Selected tags:     %s\n", strings.Join(selected, ", "))
		}

		fmt.Println("\nTags:")
		if len(st.Tags) == 0 {
			fmt.Println("  (none)")
		}
		for _, tag := range st.Tags {
			mark := " "
			if tag.Selected {
				mark = "x"
			}
			fmt.Printf("  [%s] %s\n", mark, tag.Name)
		}
		return nil
	},
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [path]",
	Short: "Print a value from the settings document",
	Long: `Prints the value at a gjson path, for example:

  droidlog settings get selectedPackage.processId
  droidlog settings get knownPackages.#.name

With no path the whole document is printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		r, err := settings.Get(openSession().settings, path)
		if err != nil {
			return err
		}
		fmt.Println(r.String())
		return nil
	},
}

var settingsPriorityCmd = &cobra.Command{
	Use:   "priority <level>",
	Short: "Set the minimum log priority (verbose, debug, info, warn, error, fatal)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := settings.ParsePriority(args[0])
		if err != nil {
			return err
		}
		s := openSession()
		s.keepSavedDevice()
		s.settings.SelectedPriority = p
		fmt.Printf("Priority set to %s\n", p)
		return s.save()
	},
}

var settingsFilterCmd = &cobra.Command{
	Use:   "filter [text]",
	Short: "Set the message filter (empty clears it)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, "")
		if filterRegex && text != "" {
			if _, err := regexp.Compile(text); err != nil {
				return fmt.Errorf("invalid filter: %w", err)
			}
		}
		s := openSession()
		s.keepSavedDevice()
		s.settings.Filter = text
		s.settings.FilterIsRegularExpression = filterRegex
		if text == "" {
			fmt.Println("Filter cleared")
		} else {
			fmt.Printf("Filter set to %q\n", text)
		}
		return s.save()
	},
}

var settingsTagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tag filters",
}

// tagCommand builds a tag subcommand that applies op to the saved tags.
func tagCommand(use, short string, op func(t *settings.Tags, name string) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <tag>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := openSession()
			s.keepSavedDevice()
			msg, err := op(&s.settings.Tags, args[0])
			if err != nil {
				return err
			}
			fmt.Println(msg)
			return s.save()
		},
	}
}

func addTag(t *settings.Tags, name string) (string, error) {
	if !t.Add(name) {
		return "", fmt.Errorf("tag %q already exists", name)
	}
	return fmt.Sprintf("Added tag %s", name), nil
}

func removeTag(t *settings.Tags, name string) (string, error) {
	if !t.Remove(name) {
		return "", fmt.Errorf("tag %q not found", name)
	}
	return fmt.Sprintf("Removed tag %s", name), nil
}

func toggleTag(t *settings.Tags, name string) (string, error) {
	selected, ok := t.Toggle(name)
	if !ok {
		return "", fmt.Errorf("tag %q not found", name)
	}
	state := "deselected"
	if selected {
		state = "selected"
	}
	return fmt.Sprintf("Tag %s %s", name, state), nil
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := openSession()
		s.settings.Reset()
		fmt.Println("Settings reset")
		return s.save()
	},
}

func init() {
	settingsFilterCmd.Flags().BoolVar(&filterRegex, "regex", false, "Treat the filter as a regular expression")

	settingsTagCmd.AddCommand(tagCommand("add", "Add a selected tag", addTag))
	settingsTagCmd.AddCommand(tagCommand("remove", "Remove a tag", removeTag))
	settingsTagCmd.AddCommand(tagCommand("toggle", "Toggle whether a tag is selected", toggleTag))

	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsPriorityCmd)
	settingsCmd.AddCommand(settingsFilterCmd)
	settingsCmd.AddCommand(settingsTagCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}
