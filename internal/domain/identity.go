// Package domain contains core domain types for the SalesWizz service.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidRegion is returned when a region string cannot be parsed.
	ErrInvalidRegion = errors.New("invalid region")
	// ErrInvalidRole is returned when a role string cannot be parsed.
	ErrInvalidRole = errors.New("invalid role")
	// ErrInvalidEmploymentType is returned when an employment type cannot be parsed.
	ErrInvalidEmploymentType = errors.New("invalid employment type")
)

// Region identifies a sales region.
type Region string

const (
	RegionNorthAmerica Region = "North America"
	RegionEMEA         Region = "EMEA"
	RegionAsia         Region = "Asia"
	RegionLATAM        Region = "LATAM"
)

// Regions returns every sales region in canonical order.
func Regions() []Region {
	return []Region{RegionNorthAmerica, RegionEMEA, RegionAsia, RegionLATAM}
}

// Valid reports whether r is one of the four known regions.
func (r Region) Valid() bool {
	switch r {
	case RegionNorthAmerica, RegionEMEA, RegionAsia, RegionLATAM:
		return true
	}
	return false
}

// ParseRegion parses a region name case-insensitively.
// Unknown values fail with ErrInvalidRegion; callers must treat that as
// a denial, never as a default region.
func ParseRegion(s string) (Region, error) {
	switch normalize(s) {
	case "north america", "northamerica", "na":
		return RegionNorthAmerica, nil
	case "emea":
		return RegionEMEA, nil
	case "asia", "apac":
		return RegionAsia, nil
	case "latam", "latin america":
		return RegionLATAM, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRegion, s)
}

// Role is an employee's job role.
type Role string

const (
	RoleAccountExecutive Role = "Account Executive"
	RoleDirector         Role = "Director"
	RoleContractor       Role = "Contractor"
	RoleOther            Role = "Other"
)

// ParseRole parses a role name case-insensitively.
// Unknown values map to RoleOther alongside ErrInvalidRole so that the
// policy engine can still fail closed on the returned value.
func ParseRole(s string) (Role, error) {
	switch normalize(s) {
	case "account executive", "accountexecutive", "ae":
		return RoleAccountExecutive, nil
	case "director":
		return RoleDirector, nil
	case "contractor":
		return RoleContractor, nil
	case "other":
		return RoleOther, nil
	}
	return RoleOther, fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// EmploymentType distinguishes employees from contractors.
type EmploymentType string

const (
	EmploymentEmployee   EmploymentType = "Employee"
	EmploymentContractor EmploymentType = "Contractor"
)

// ParseEmploymentType parses an employment type case-insensitively.
// Unknown values map to EmploymentContractor alongside the error: when we
// cannot tell whether someone is a contractor, access rules must assume
// they are.
func ParseEmploymentType(s string) (EmploymentType, error) {
	switch normalize(s) {
	case "employee", "full-time", "full time", "fte":
		return EmploymentEmployee, nil
	case "contractor":
		return EmploymentContractor, nil
	}
	return EmploymentContractor, fmt.Errorf("%w: %q", ErrInvalidEmploymentType, s)
}

// Identity is the simulated current user driving access decisions.
// The employee_id column of the roster source is deliberately absent:
// it must never reach the policy context or the answer engine.
type Identity struct {
	Name           string         `json:"name"`
	Role           Role           `json:"role"`
	Region         Region         `json:"region"`
	EmploymentType EmploymentType `json:"employment_type"`
	AvatarRef      string         `json:"avatar_ref,omitempty"`
}

// FirstName returns the display first name used in greetings.
func (i Identity) FirstName() string {
	name := strings.TrimSpace(i.Name)
	if name == "" {
		return "there"
	}
	if idx := strings.IndexByte(name, ' '); idx > 0 {
		return name[:idx]
	}
	return name
}

// IsContractor reports whether the identity is a contractor by role or by
// employment type. Either flag alone locks out data access.
func (i Identity) IsContractor() bool {
	return i.Role == RoleContractor || i.EmploymentType == EmploymentContractor
}

// Attributes renders the identity fields shared with the answer engine.
func (i Identity) Attributes() string {
	return fmt.Sprintf("%s, %s, %s, %s", i.Name, i.Role, i.Region, i.EmploymentType)
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}
