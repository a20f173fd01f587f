// Package graph stores movies and their cast in Neo4j.
package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v6/neo4j"

	"github.com/go-scripts/topmovies/internal/filter"
	"github.com/go-scripts/topmovies/internal/types"
)

// Store writes (:Actor)-[:ACTED_IN]->(:Movie) edges. It implements export.Sink.
type Store struct {
	driver neo4j.Driver
}

// Open connects and authenticates
func Open(ctx context.Context, uri, user, pass string) (*Store, error) {
	driver, err := neo4j.NewDriver(uri, neo4j.BasicAuth(user, pass, ""))
	if err != nil {
		return nil, fmt.Errorf("error creating neo4j driver: %w", err)
	}

	if err = driver.VerifyAuthentication(ctx, nil); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("error authenticating into neo4j: %w", err)
	}

	return &Store{driver: driver}, nil
}

func (s *Store) SetupSchema(ctx context.Context) error {
	queries := []string{
		"CREATE CONSTRAINT movie_url IF NOT EXISTS FOR (m:Movie) REQUIRE m.url IS UNIQUE",
		"CREATE CONSTRAINT actor_key IF NOT EXISTS FOR (a:Actor) REQUIRE a.key IS UNIQUE",
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	for _, query := range queries {
		if _, err := session.Run(ctx, query, nil); err != nil {
			return fmt.Errorf("error running schema query: %w", err)
		}
	}

	return nil
}

const upsertMovie = `
	MERGE (m:Movie {url: $url})
	SET m.title = $title, m.year = $year, m.rating = $rating, m.plot = $plot
	WITH m
	UNWIND $actors AS actor
	MERGE (a:Actor {key: actor.key})
	SET a.name = actor.name, a.profile_url = actor.profile_url
	MERGE (a)-[r:ACTED_IN]->(m)
	SET r.billing = actor.billing`

func (s *Store) Write(ctx context.Context, m types.ExtractedMovie) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	result, err := session.Run(ctx, upsertMovie, movieParams(m))
	if err != nil {
		return fmt.Errorf("error upserting movie %s: %w", m.URL, err)
	}
	if _, err := result.Consume(ctx); err != nil {
		return fmt.Errorf("error upserting movie %s: %w", m.URL, err)
	}

	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func movieParams(m types.ExtractedMovie) map[string]any {
	actors := make([]any, 0, len(m.Cast))
	for i, a := range m.Cast {
		actors = append(actors, map[string]any{
			"key":         actorKey(a),
			"name":        a.Name,
			"profile_url": a.ProfileURL,
			"billing":     i + 1,
		})
	}
	return map[string]any{
		"url":    m.URL,
		"title":  m.Title,
		"year":   m.Year,
		"rating": m.Rating,
		"plot":   m.Plot,
		"actors": actors,
	}
}

// actorKey identifies an actor by profile URL without tracking parameters,
// falling back to the name when the page gave no link.
func actorKey(a types.ActorRef) string {
	if a.ProfileURL == types.NoProfileURL {
		return "name:" + a.Name
	}
	key, err := filter.Normalize(a.ProfileURL, a.ProfileURL, filter.DefaultTrackingParams)
	if err != nil {
		return a.ProfileURL
	}
	return key
}
