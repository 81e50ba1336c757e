package models

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Command scores texts with an external program. Texts are written to its
// stdin one per line (newlines folded to spaces); it must print exactly one
// score per line on stdout.
type Command struct {
	ID   string
	Path string
	Args []string
}

func (c *Command) Name() string { return c.ID }

func (c *Command) Predict(ctx context.Context, texts []string) ([]float64, error) {
	var in bytes.Buffer
	for _, t := range texts {
		in.WriteString(strings.NewReplacer("\r", " ", "\n", " ").Replace(t))
		in.WriteByte('\n')
	}
	var out, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Stdin = &in
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("run %s: %w: %s", c.Path, err, strings.TrimSpace(stderr.String()))
	}

	scores := make([]float64, 0, len(texts))
	sc := bufio.NewScanner(&out)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", c.ID, len(scores)+1, err)
		}
		scores = append(scores, v)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(scores) != len(texts) {
		return nil, fmt.Errorf("%w: %s returned %d scores for %d texts", ErrScoreCount, c.ID, len(scores), len(texts))
	}
	return scores, nil
}

var errNoCommand = errors.New("command model needs a program")
