package cmd

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/FluidXR/droidlog/internal/logging"
)

type dependency struct {
	name       string
	binary     string
	installCmd map[string]string // GOOS -> install command
}

var adbDependency = dependency{
	name:   "ADB (Android Debug Bridge)",
	binary: "adb",
	installCmd: map[string]string{
		"darwin":  "brew install android-platform-tools",
		"linux":   "sudo apt install android-tools-adb",
		"windows": "winget install Google.PlatformTools",
	},
}

var rcloneDependency = dependency{
	name:   "rclone",
	binary: "rclone",
	installCmd: map[string]string{
		"darwin":  "brew install rclone",
		"linux":   "curl https://rclone.org/install.sh | sudo bash",
		"windows": "winget install Rclone.Rclone",
	},
}

// requireDeps returns a PreRunE that checks the given external tools are
// installed, offering to install missing ones.
func requireDeps(deps ...dependency) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return checkDeps(deps)
	}
}

// binaryFor returns the configured binary path for a dependency.
func binaryFor(dep dependency) string {
	if dep.binary == "adb" && cfg != nil && cfg.ADBPath != "" {
		return cfg.ADBPath
	}
	return dep.binary
}

// shellCommand runs line through the platform shell so install commands may
// use pipes.
func shellCommand(goos, line string) *exec.Cmd {
	if goos == "windows" {
		return exec.Command("cmd", "/C", line)
	}
	return exec.Command("sh", "-c", line)
}

// missingDeps returns the dependencies whose binary is not on PATH.
func missingDeps(deps []dependency) []dependency {
	var missing []dependency
	for _, dep := range deps {
		if _, err := exec.LookPath(binaryFor(dep)); err != nil {
			missing = append(missing, dep)
		}
	}
	return missing
}

// confirmed reads a y/n answer; an empty answer counts as yes.
func confirmed(r *bufio.Reader) bool {
	answer, _ := r.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "" || answer == "y" || answer == "yes"
}

// checkDeps verifies that required external tools are installed, offering
// to run the platform install command for each missing one.
func checkDeps(deps []dependency) error {
	missing := missingDeps(deps)
	if len(missing) == 0 {
		return nil
	}

	fmt.Println("droidlog requires the following tools that are not installed:")
	for _, dep := range missing {
		fmt.Printf("  - %s (%s)\n", dep.name, dep.binary)
	}
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	for _, dep := range missing {
		line, ok := dep.installCmd[runtime.GOOS]
		if !ok {
			fmt.Printf("Please install %s manually and try again.\n", dep.name)
			continue
		}
		fmt.Printf("Install %s with: %s\nRun now? [Y/n] ", dep.name, line)
		if !confirmed(reader) {
			fmt.Printf("Skipped. Install %s manually before using droidlog.\n", dep.name)
			continue
		}

		install := shellCommand(runtime.GOOS, line)
		install.Stdin, install.Stdout, install.Stderr = os.Stdin, os.Stdout, os.Stderr
		if err := install.Run(); err != nil {
			logging.Error("cli").Err(err).Str("dependency", dep.binary).Msg("install failed")
			fmt.Fprintf(os.Stderr, "Failed to install %s, please install it manually.\n", dep.name)
		}
	}

	if still := missingDeps(missing); len(still) > 0 {
		return fmt.Errorf("%s is required but not installed", still[0].binary)
	}
	for _, dep := range missing {
		fmt.Printf("%s installed successfully.\n", dep.name)
	}
	return nil
}
