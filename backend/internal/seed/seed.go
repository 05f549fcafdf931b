// Package seed loads a YAML dataset of places, catalogs, nodes, edges and
// users into a store through the services, so every write is validated.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"

	"link-graph/backend/internal/graph"
	"link-graph/backend/internal/services"
	"link-graph/backend/pkg/logger"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed dataset.yaml
var defaultDataset []byte

// Dataset is the file layout. Records point at each other by key.
type Dataset struct {
	Places            []PlaceRecord        `yaml:"places"`
	EntityTypes       []EntityTypeRecord   `yaml:"entityTypes"`
	RelationshipTypes []RelationshipRecord `yaml:"relationshipTypes"`
	Persons           []PersonRecord       `yaml:"persons"`
	Entities          []EntityRecord       `yaml:"entities"`
	Relationships     []EdgeRecord         `yaml:"relationships"`
	Users             []UserRecord         `yaml:"users"`
}

type PlaceRecord struct {
	Key         string   `yaml:"key"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Images      []string `yaml:"images"`
	Region      string   `yaml:"region"`
}

type EntityTypeRecord struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type RelationshipRecord struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
}

type PersonRecord struct {
	Key         string   `yaml:"key"`
	FirstName   string   `yaml:"firstName"`
	LastName    string   `yaml:"lastName"`
	Description string   `yaml:"description"`
	DateOfBirth string   `yaml:"dateOfBirth"`
	Websites    []string `yaml:"websites"`
	Images      []string `yaml:"images"`
	Place       string   `yaml:"place"`
}

type EntityRecord struct {
	Key         string   `yaml:"key"`
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type"`
	Description string   `yaml:"description"`
	Websites    []string `yaml:"websites"`
	Images      []string `yaml:"images"`
	Place       string   `yaml:"place"`
}

type EdgeRecord struct {
	From                string `yaml:"from"`
	To                  string `yaml:"to"`
	FromModel           string `yaml:"fromModel"`
	ToModel             string `yaml:"toModel"`
	Relationship        string `yaml:"relationship"`
	ReverseRelationship string `yaml:"reverseRelationship"`
}

type UserRecord struct {
	Email string     `yaml:"email"`
	Name  string     `yaml:"name"`
	Role  graph.Role `yaml:"role"`
}

// Summary counts what Apply wrote
type Summary struct {
	Places            int
	EntityTypes       int
	RelationshipTypes int
	Persons           int
	Entities          int
	Relationships     int
	Users             int
}

// Default returns the embedded sample dataset
func Default() (*Dataset, error) {
	return Load(bytes.NewReader(defaultDataset))
}

// Load decodes a dataset, rejecting unknown keys
func Load(r io.Reader) (*Dataset, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var ds Dataset
	if err := dec.Decode(&ds); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	return &ds, nil
}

// Apply writes ds through svc. With reset the store is wiped first.
func Apply(ctx context.Context, svc *services.Services, store graph.Store, ds *Dataset, reset bool) (Summary, error) {
	log := logger.Named("seed")
	var sum Summary

	if reset {
		if err := store.Reset(ctx); err != nil {
			return sum, fmt.Errorf("failed to reset store: %w", err)
		}
		log.Info("Cleared existing data")
	}

	keys := newKeyring()

	for _, p := range ds.Places {
		region, err := keys.lookup("place", p.Region)
		if err != nil {
			return sum, err
		}
		place, err := svc.Places.Create(ctx, services.PlaceInput{
			Name:        p.Name,
			Description: p.Description,
			Images:      p.Images,
			Region:      region,
		})
		if err != nil {
			return sum, fmt.Errorf("place %q: %w", p.Name, err)
		}
		keys.put("place", p.Key, place.ID)
		sum.Places++
	}

	for _, et := range ds.EntityTypes {
		created, err := svc.EntityTypes.Create(ctx, services.EntityTypeInput{Name: et.Name, Description: et.Description})
		if err != nil {
			return sum, fmt.Errorf("entity type %q: %w", et.Name, err)
		}
		keys.put("entityType", et.Key, created.ID)
		sum.EntityTypes++
	}

	for _, rt := range ds.RelationshipTypes {
		created, err := svc.RelationshipTypes.Create(ctx, services.RelationshipTypeInput{Name: rt.Name})
		if err != nil {
			return sum, fmt.Errorf("relationship type %q: %w", rt.Name, err)
		}
		keys.put("relationshipType", rt.Key, created.ID)
		sum.RelationshipTypes++
	}

	for _, p := range ds.Persons {
		in, err := p.input(keys)
		if err != nil {
			return sum, err
		}
		person, err := svc.Persons.Create(ctx, in)
		if err != nil {
			return sum, fmt.Errorf("person %q: %w", p.FirstName, err)
		}
		keys.put(string(graph.KindPerson), p.Key, person.ID)
		sum.Persons++
	}

	for _, e := range ds.Entities {
		typeID, err := keys.lookup("entityType", e.Type)
		if err != nil {
			return sum, err
		}
		place, err := keys.lookup("place", e.Place)
		if err != nil {
			return sum, err
		}
		entity, err := svc.Entities.Create(ctx, services.EntityInput{
			Type:        typeID,
			Name:        e.Name,
			Description: e.Description,
			Websites:    e.Websites,
			Images:      e.Images,
			Place:       place,
		})
		if err != nil {
			return sum, fmt.Errorf("entity %q: %w", e.Name, err)
		}
		keys.put(string(graph.KindEntity), e.Key, entity.ID)
		sum.Entities++
	}

	for i, r := range ds.Relationships {
		in, err := r.input(keys)
		if err != nil {
			return sum, fmt.Errorf("relationship %d: %w", i, err)
		}
		if _, err := svc.Relationships.Create(ctx, in); err != nil {
			return sum, fmt.Errorf("relationship %s -> %s: %w", r.From, r.To, err)
		}
		sum.Relationships++
	}

	for _, u := range ds.Users {
		if _, err := svc.Auth.Register(ctx, u.Email, u.Name, u.Role); err != nil {
			return sum, fmt.Errorf("user %q: %w", u.Email, err)
		}
		sum.Users++
	}

	log.Info("Database seeded",
		zap.Int("places", sum.Places),
		zap.Int("entity_types", sum.EntityTypes),
		zap.Int("relationship_types", sum.RelationshipTypes),
		zap.Int("persons", sum.Persons),
		zap.Int("entities", sum.Entities),
		zap.Int("relationships", sum.Relationships),
		zap.Int("users", sum.Users))
	return sum, nil
}

func (p PersonRecord) input(keys *keyring) (services.PersonInput, error) {
	place, err := keys.lookup("place", p.Place)
	if err != nil {
		return services.PersonInput{}, err
	}
	in := services.PersonInput{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Description: p.Description,
		Websites:    p.Websites,
		Images:      p.Images,
		Place:       place,
	}
	if p.DateOfBirth != "" {
		dob, err := parseDate(p.DateOfBirth)
		if err != nil {
			return in, fmt.Errorf("person %q: invalid dateOfBirth %q", p.FirstName, p.DateOfBirth)
		}
		in.DateOfBirth = &dob
	}
	return in, nil
}

func (r EdgeRecord) input(keys *keyring) (services.RelationshipInput, error) {
	from, err := keys.lookup(r.FromModel, r.From)
	if err != nil {
		return services.RelationshipInput{}, err
	}
	to, err := keys.lookup(r.ToModel, r.To)
	if err != nil {
		return services.RelationshipInput{}, err
	}
	rel, err := keys.lookup("relationshipType", r.Relationship)
	if err != nil {
		return services.RelationshipInput{}, err
	}
	rev, err := keys.lookup("relationshipType", r.ReverseRelationship)
	if err != nil {
		return services.RelationshipInput{}, err
	}
	return services.RelationshipInput{
		From:                from,
		To:                  to,
		FromModel:           r.FromModel,
		ToModel:             r.ToModel,
		Relationship:        rel,
		ReverseRelationship: rev,
	}, nil
}
