// schema/schema.go
package schema

import (
	"encoding/json"
	"fmt"
	"sort"

	sentra_errors "github.com/sentra-iam/sentra/errors"
)

// Attribute describes one attribute of an entity type.
type Attribute struct {
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// EntityType describes a principal or resource type and its attributes.
type EntityType struct {
	Attributes map[string]Attribute `json:"attributes"`
}

// AppliesTo restricts which entity types an action connects.
type AppliesTo struct {
	PrincipalTypes []string `json:"principal_types"`
	ResourceTypes  []string `json:"resource_types"`
}

// Action describes one action and the entity types it applies to.
type Action struct {
	AppliesTo AppliesTo `json:"applies_to"`
}

// Schema is a parsed, immutable schema snapshot. All validation and
// coverage analysis runs against one snapshot; reloads swap the whole
// object rather than mutating it.
type Schema struct {
	SchemaID    string                `json:"schema_id"`
	Version     string                `json:"version"`
	EntityTypes map[string]EntityType `json:"entity_types"`
	Actions     map[string]Action     `json:"actions"`
}

// Parse decodes and sanity-checks a JSON schema document.
func Parse(content []byte) (*Schema, error) {
	var s Schema
	if err := json.Unmarshal(content, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", sentra_errors.ErrInvalidSchema, err)
	}
	if len(s.EntityTypes) == 0 {
		return nil, fmt.Errorf("%w: schema defines no entity types", sentra_errors.ErrInvalidSchema)
	}
	if s.Version == "" {
		s.Version = "1.0.0"
	}
	for action, def := range s.Actions {
		for _, pt := range def.AppliesTo.PrincipalTypes {
			if _, ok := s.EntityTypes[pt]; !ok {
				return nil, fmt.Errorf("%w: action %q applies to unknown principal type %q",
					sentra_errors.ErrInvalidSchema, action, pt)
			}
		}
		for _, rt := range def.AppliesTo.ResourceTypes {
			if _, ok := s.EntityTypes[rt]; !ok {
				return nil, fmt.Errorf("%w: action %q applies to unknown resource type %q",
					sentra_errors.ErrInvalidSchema, action, rt)
			}
		}
	}
	return &s, nil
}

// HasEntityType reports whether the schema defines the entity type.
func (s *Schema) HasEntityType(name string) bool {
	_, ok := s.EntityTypes[name]
	return ok
}

// HasAction reports whether the schema defines the action.
func (s *Schema) HasAction(name string) bool {
	_, ok := s.Actions[name]
	return ok
}

// HasAttribute reports whether the entity type defines the attribute.
func (s *Schema) HasAttribute(entityType, attribute string) bool {
	et, ok := s.EntityTypes[entityType]
	if !ok {
		return false
	}
	_, ok = et.Attributes[attribute]
	return ok
}

// AttributeType returns the declared type of an entity attribute, or
// false when either the entity type or the attribute is unknown.
func (s *Schema) AttributeType(entityType, attribute string) (string, bool) {
	et, ok := s.EntityTypes[entityType]
	if !ok {
		return "", false
	}
	attr, ok := et.Attributes[attribute]
	if !ok {
		return "", false
	}
	return attr.Type, true
}

// EntityTypeNames returns the defined entity type names, sorted.
func (s *Schema) EntityTypeNames() []string {
	names := make([]string, 0, len(s.EntityTypes))
	for name := range s.EntityTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ActionNames returns the defined action names, sorted.
func (s *Schema) ActionNames() []string {
	names := make([]string, 0, len(s.Actions))
	for name := range s.Actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ActionAppliesToPrincipal reports whether an action may be performed by
// the given principal type. Actions without applies_to restrictions
// accept any principal.
func (s *Schema) ActionAppliesToPrincipal(action, principalType string) bool {
	def, ok := s.Actions[action]
	if !ok || len(def.AppliesTo.PrincipalTypes) == 0 {
		return true
	}
	for _, pt := range def.AppliesTo.PrincipalTypes {
		if pt == principalType {
			return true
		}
	}
	return false
}

// ActionAppliesToResource reports whether an action may target the given
// resource type. Actions without applies_to restrictions accept any
// resource.
func (s *Schema) ActionAppliesToResource(action, resourceType string) bool {
	def, ok := s.Actions[action]
	if !ok || len(def.AppliesTo.ResourceTypes) == 0 {
		return true
	}
	for _, rt := range def.AppliesTo.ResourceTypes {
		if rt == resourceType {
			return true
		}
	}
	return false
}

// Info summarizes the snapshot's identity for validation reports.
func (s *Schema) Info() SchemaIdentity {
	return SchemaIdentity{
		SchemaID:        s.SchemaID,
		Version:         s.Version,
		EntityTypeCount: len(s.EntityTypes),
		ActionCount:     len(s.Actions),
	}
}

// SchemaIdentity identifies a snapshot without exposing its contents.
type SchemaIdentity struct {
	SchemaID        string
	Version         string
	EntityTypeCount int
	ActionCount     int
}
