// Package config holds the team/process property file and the
// application settings that locate it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/tgienger/planner/internal/models"
)

// Recognized sections of the property file
const (
	SectionProjectDefaults   = "PROJECT_DEFAULTS"
	SectionTeamMembers       = "TEAM_MEMBERS"
	SectionHolidays          = "HOLIDAYS"
	SectionSkills            = "SKILLS"
	SectionCommunication     = "COMMUNICATION"
	SectionProjectChallenges = "PROJECT_CHALLENGES"
)

var (
	ErrSectionMissing = errors.New("config section missing")
	ErrKeyMissing     = errors.New("config key missing")
)

// Item is one key/value pair of a section
type Item struct {
	Key   string
	Value string
}

type section struct {
	name  string
	items []Item
}

// defaults is written verbatim when the property file does not exist
var defaults = []section{
	{SectionProjectDefaults, []Item{
		{"EpicNameDefault", "Ingress, Egress, MDM Customization"},
		{"TaskNameDefault", "Requirements Gathering, Technical Design, Development, Testing"},
		{"SubTaskNameDefault", "Data Mapping, UI Screens, RBAC Roles"},
	}},
	{SectionTeamMembers, []Item{
		{"SSA1_Name", "Senior Solutions Architect (USA)"},
		{"SA2_Name", "Solutions Architect (USA)"},
		{"Offshore_PM_Name", "Offshore Project Manager (India)"},
		{"Offshore_Devs_Count", "6"},
	}},
	{SectionHolidays, []Item{
		{"India_Holidays_YYYY-MM-DD", "2025-08-15, 2025-10-02, 2025-10-23"},
		{"US_Holidays_YYYY-MM-DD", "2025-07-04, 2025-09-01, 2025-11-27"},
	}},
	{SectionSkills, []Item{
		{"SSA1_Skills", "Architecture, MDM, ETL, Client Management, Risk Mitigation"},
		{"SA2_Skills", "ETL, Data Pipelines, MDM Customization, Hands-on Development, POCs"},
		{"Offshore_Dev_Skills_Expected", "Python, SQL, ETL Tools, Vendor MDM APIs, Unit Testing"},
	}},
	{SectionCommunication, []Item{
		{"Overlap_Hours", "2"},
		{"Daily_Call_Time_US_ET", "9:00 AM"},
		{"Weekly_Recon_Day", "Monday"},
		{"Weekly_Recon_Time_US_ET", "11:00 AM"},
	}},
	{SectionProjectChallenges, []Item{
		{"Time_Constraint", "7 months"},
		{"Scope_Change_Frequency", "Regular"},
		{"Team_Technical_Strength", "Not strong, many POCs needed"},
		{"SSA1_Responsibilities", "Client feedback, design consensus, weekly reporting"},
		{"SA2_Responsibilities", "Hands-on, technical guidance"},
	}},
}

// Properties is the INI-backed key/value store for team and process
// settings. Keys are case-insensitive; section names are not.
type Properties struct {
	path string
	file *ini.File
}

var loadOptions = ini.LoadOptions{
	InsensitiveKeys:         true,
	IgnoreInlineComment:     true,
	PreserveSurroundedQuote: true,
}

// Load reads the property file at path, first writing the default
// content if the file does not exist
func Load(path string) (*Properties, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := writeDefaults(path); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat properties: %w", err)
	}

	file, err := ini.LoadSources(loadOptions, path)
	if err != nil {
		return nil, fmt.Errorf("load properties %s: %w", path, err)
	}
	return &Properties{path: path, file: file}, nil
}

func writeDefaults(path string) error {
	file := ini.Empty(loadOptions)
	for _, s := range defaults {
		sec, err := file.NewSection(s.name)
		if err != nil {
			return fmt.Errorf("default section %s: %w", s.name, err)
		}
		for _, it := range s.items {
			if _, err := sec.NewKey(it.Key, it.Value); err != nil {
				return fmt.Errorf("default key %s.%s: %w", s.name, it.Key, err)
			}
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create properties dir: %w", err)
		}
	}
	if err := file.SaveTo(path); err != nil {
		return fmt.Errorf("write default properties: %w", err)
	}
	return nil
}

// Path returns the file backing the store
func (p *Properties) Path() string {
	return p.path
}

// Lookup returns the value at section/key or a typed error saying which
// part is missing
func (p *Properties) Lookup(section, key string) (string, error) {
	sec, err := p.file.GetSection(section)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrSectionMissing, section)
	}
	if !sec.HasKey(key) {
		return "", fmt.Errorf("%w: %s.%s", ErrKeyMissing, section, key)
	}
	return sec.Key(key).String(), nil
}

// Get returns the value at section/key; ok is false when either is absent
func (p *Properties) Get(section, key string) (value string, ok bool) {
	v, err := p.Lookup(section, key)
	if err != nil {
		return "", false
	}
	return v, true
}

// Set stores fmt.Sprint(value) at section/key, creating the section if
// needed, and writes the file immediately
func (p *Properties) Set(section, key string, value any) error {
	sec, err := p.file.GetSection(section)
	if err != nil {
		if sec, err = p.file.NewSection(section); err != nil {
			return fmt.Errorf("create section %s: %w", section, err)
		}
	}
	sec.Key(key).SetValue(fmt.Sprint(value))

	if err := p.file.SaveTo(p.path); err != nil {
		return fmt.Errorf("save properties: %w", err)
	}
	return nil
}

// Sections lists section names in file order, excluding the implicit
// default section
func (p *Properties) Sections() []string {
	var names []string
	for _, name := range p.file.SectionStrings() {
		if name == ini.DefaultSection {
			continue
		}
		names = append(names, name)
	}
	return names
}

// SectionItems returns a section's pairs in file order; an absent
// section yields nil
func (p *Properties) SectionItems(section string) []Item {
	sec, err := p.file.GetSection(section)
	if err != nil {
		return nil
	}
	items := make([]Item, 0, len(sec.Keys()))
	for _, k := range sec.Keys() {
		items = append(items, Item{Key: k.Name(), Value: k.Value()})
	}
	return items
}

// Holidays parses a comma-separated list of YYYY-MM-DD dates stored
// under HOLIDAYS/key
func (p *Properties) Holidays(key string) ([]models.Date, error) {
	raw, err := p.Lookup(SectionHolidays, key)
	if err != nil {
		return nil, err
	}

	var dates []models.Date
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := models.ParseDate(part)
		if err != nil {
			return nil, fmt.Errorf("holiday %s: %w", key, err)
		}
		dates = append(dates, d)
	}
	return dates, nil
}
