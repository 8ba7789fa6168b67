package source

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
)

// Paths names the files of the three input tables. An empty path leaves that
// table unsupplied.
type Paths struct {
	Mentors string
	Mentees string
	Matches string
}

// Inputs holds the parsed input tables. A nil field was not supplied.
type Inputs struct {
	Mentors *ParseResult
	Mentees *ParseResult
	Matches *ParseResult
}

// LoadFile parses the file at path.
func LoadFile(ctx context.Context, path string, p Parser) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path) //nolint:gosec // path comes from user configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	res, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return res, nil
}

// LoadInputs parses every configured input file concurrently.
// The first failure cancels the remaining loads and is returned.
func LoadInputs(ctx context.Context, p Parser, paths Paths) (*Inputs, error) {
	var in Inputs
	g, ctx := errgroup.WithContext(ctx)

	load := func(path string, dst **ParseResult) {
		if path == "" {
			return
		}
		g.Go(func() error {
			res, err := LoadFile(ctx, path, p)
			if err != nil {
				return err
			}
			*dst = res
			return nil
		})
	}

	load(paths.Mentors, &in.Mentors)
	load(paths.Mentees, &in.Mentees)
	load(paths.Matches, &in.Matches)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &in, nil
}
