package configstore

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// DefaultSection holds un-sectioned keys. Its keys form the render context.
const DefaultSection = "DEFAULT"

// Entry is a single key/value pair as read from a file.
type Entry struct {
	Key   string
	Value string
}

// Section is an ordered group of entries.
type Section struct {
	Name    string
	Entries []Entry
}

var loadOptions = ini.LoadOptions{
	SpaceBeforeInlineComment:   true,
	AllowPythonMultilineValues: true,
	SkipUnrecognizableLines:    false,
}

// Parse parses INI data into ordered sections. Keys outside any section land
// in DefaultSection. Values are returned raw, without interpolation.
func Parse(data []byte) ([]Section, error) {
	f, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, fmt.Errorf("parse ini: %w", err)
	}

	var sections []Section
	for _, sec := range f.Sections() {
		keys := sec.Keys()
		if len(keys) == 0 && sec.Name() == DefaultSection {
			continue
		}
		parsed := Section{Name: sec.Name(), Entries: make([]Entry, 0, len(keys))}
		for _, k := range keys {
			parsed.Entries = append(parsed.Entries, Entry{Key: k.Name(), Value: k.Value()})
		}
		sections = append(sections, parsed)
	}
	return sections, nil
}
