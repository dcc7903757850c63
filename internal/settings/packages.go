package settings

import (
	"encoding/json"
	"fmt"
)

// PackageInfo ties a package name to its process on a device.
type PackageInfo struct {
	DeviceID  string `json:"deviceId"`
	Name      string `json:"name"`
	ProcessID int    `json:"processId"`
}

// Valid reports whether the record names a device and a live process.
func (p *PackageInfo) Valid() bool {
	return p != nil && p.DeviceID != "" && p.ProcessID > 0
}

func (p PackageInfo) String() string {
	return fmt.Sprintf("%s [%d]", p.Name, p.ProcessID)
}

// PackageSet is an ordered multimap of package records keyed by device id.
// It encodes as a flat JSON array of records, each carrying its device id.
type PackageSet struct {
	order    []string
	byDevice map[string][]PackageInfo
}

// GroupPackages builds a set from a flat list. Records without a device id
// are dropped.
func GroupPackages(list []PackageInfo) PackageSet {
	var s PackageSet
	for _, p := range list {
		s.append(p)
	}
	return s
}

func (s *PackageSet) append(p PackageInfo) {
	if p.DeviceID == "" {
		return
	}
	if s.byDevice == nil {
		s.byDevice = make(map[string][]PackageInfo)
	}
	if _, ok := s.byDevice[p.DeviceID]; !ok {
		s.order = append(s.order, p.DeviceID)
	}
	s.byDevice[p.DeviceID] = append(s.byDevice[p.DeviceID], p)
}

// Add stores p, replacing any record with the same name on the same device.
// It returns false when p has no device id.
func (s *PackageSet) Add(p PackageInfo) bool {
	if p.DeviceID == "" {
		return false
	}
	list := s.byDevice[p.DeviceID]
	for i := range list {
		if list[i].Name == p.Name {
			list[i] = p
			return true
		}
	}
	s.append(p)
	return true
}

// Remove deletes the named package from a device and reports whether it existed.
func (s *PackageSet) Remove(deviceID, name string) bool {
	list, ok := s.byDevice[deviceID]
	if !ok {
		return false
	}
	for i := range list {
		if list[i].Name != name {
			continue
		}
		list = append(list[:i:i], list[i+1:]...)
		if len(list) == 0 {
			delete(s.byDevice, deviceID)
			for j, id := range s.order {
				if id == deviceID {
					s.order = append(s.order[:j:j], s.order[j+1:]...)
					break
				}
			}
		} else {
			s.byDevice[deviceID] = list
		}
		return true
	}
	return false
}

// Find returns the named package on a device.
func (s PackageSet) Find(deviceID, name string) (PackageInfo, bool) {
	for _, p := range s.byDevice[deviceID] {
		if p.Name == name {
			return p, true
		}
	}
	return PackageInfo{}, false
}

// ForDevice returns a copy of the records known for a device.
func (s PackageSet) ForDevice(deviceID string) []PackageInfo {
	list := s.byDevice[deviceID]
	if len(list) == 0 {
		return nil
	}
	return append([]PackageInfo(nil), list...)
}

// Devices returns device ids in first-insertion order.
func (s PackageSet) Devices() []string {
	return append([]string(nil), s.order...)
}

// Len returns the total number of records.
func (s PackageSet) Len() int {
	n := 0
	for _, list := range s.byDevice {
		n += len(list)
	}
	return n
}

// Flatten returns every record, grouped by device in insertion order.
func (s PackageSet) Flatten() []PackageInfo {
	out := make([]PackageInfo, 0, s.Len())
	for _, id := range s.order {
		out = append(out, s.byDevice[id]...)
	}
	return out
}

func (s PackageSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Flatten())
}

func (s *PackageSet) UnmarshalJSON(data []byte) error {
	var list []PackageInfo
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("decode packages: %w", err)
	}
	*s = GroupPackages(list)
	return nil
}
