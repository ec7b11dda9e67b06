package survey

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/clubmatch/clubmatch/internal/taxonomy"
)

// OtherChoice marks an identity group the user declined to answer
const OtherChoice = "other"

// Question is one prompt handed to an AnswerSource
type Question struct {
	ID       string
	Text     string
	Category string
	Gate     bool // gates accept Maybe, sub-questions are yes/no
}

// AnswerSource supplies answers to the aggregator. The aggregator owns the
// question order; sources only answer.
type AnswerSource interface {
	Ask(ctx context.Context, q Question) (Answer, error)
	// Choose returns a tag label from group or OtherChoice
	Choose(ctx context.Context, group taxonomy.IdentityGroup, labels []string) (string, error)
}

// Scripted answers from a fixed set, usually read from an answers file
type Scripted struct {
	answers  map[string]Answer
	identity map[string]string
}

// answersFile is the on-disk TOML layout
type answersFile struct {
	Answers  map[string]string `toml:"answers"`
	Identity map[string]string `toml:"identity"`
}

// NewScripted parses raw answers keyed by question id and identity picks
// keyed by group name
func NewScripted(answers, identity map[string]string) (*Scripted, error) {
	s := &Scripted{
		answers:  make(map[string]Answer, len(answers)),
		identity: make(map[string]string, len(identity)),
	}

	var errs []error
	for id, raw := range answers {
		a, err := ParseAnswer(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("question %s: %w", id, err))
			continue
		}
		s.answers[id] = a
	}
	for group, label := range identity {
		s.identity[group] = strings.TrimSpace(label)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return s, nil
}

// LoadScripted reads an answers file
func LoadScripted(path string) (*Scripted, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read answers file: %w", err)
	}

	var f answersFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse answers file: %w", err)
	}
	return NewScripted(f.Answers, f.Identity)
}

// Ask returns the scripted answer. Maybe on a sub-question is rejected.
func (s *Scripted) Ask(_ context.Context, q Question) (Answer, error) {
	a, ok := s.answers[q.ID]
	if !ok {
		return No, fmt.Errorf("%w: question %s", ErrMissingAnswer, q.ID)
	}
	if a == Maybe && !q.Gate {
		return No, fmt.Errorf("%w: question %s only accepts yes or no", ErrInvalidAnswer, q.ID)
	}
	return a, nil
}

// Choose returns the scripted pick. A group with no entry counts as other.
func (s *Scripted) Choose(_ context.Context, group taxonomy.IdentityGroup, _ []string) (string, error) {
	label, ok := s.identity[group.Name]
	if !ok || label == "" {
		return OtherChoice, nil
	}
	return label, nil
}

// Prompter asks questions on a line-oriented terminal and re-asks until it
// gets a valid answer
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewPrompter reads answers from r and writes prompts to w
func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(r), out: w}
}

func (p *Prompter) readLine() (string, error) {
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("%w: input closed", ErrMissingAnswer)
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// Ask prompts for one answer
func (p *Prompter) Ask(ctx context.Context, q Question) (Answer, error) {
	hint := "[y/n]"
	if q.Gate {
		hint = "[y/m/n]"
		fmt.Fprintf(p.out, "\n== %s ==\n", q.Category)
	}

	for {
		if err := ctx.Err(); err != nil {
			return No, err
		}
		fmt.Fprintf(p.out, "%s %s: ", q.Text, hint)

		line, err := p.readLine()
		if err != nil {
			return No, err
		}
		a, err := ParseAnswer(line)
		if err == nil && (q.Gate || a != Maybe) {
			return a, nil
		}
		fmt.Fprintf(p.out, "Please answer %s\n", hint)
	}
}

// Choose lists the group's labels and accepts a number, a label or 0 for other
func (p *Prompter) Choose(ctx context.Context, group taxonomy.IdentityGroup, labels []string) (string, error) {
	fmt.Fprintf(p.out, "\n%s\n", group.Question)
	for i, l := range labels {
		fmt.Fprintf(p.out, "  %2d) %s\n", i+1, l)
	}
	fmt.Fprintf(p.out, "  %2d) Other / decline to say\n", 0)

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		fmt.Fprint(p.out, "Choice: ")

		line, err := p.readLine()
		if err != nil {
			return "", err
		}
		if n, err := strconv.Atoi(line); err == nil {
			if n == 0 {
				return OtherChoice, nil
			}
			if n >= 1 && n <= len(labels) {
				return labels[n-1], nil
			}
		} else if strings.EqualFold(line, OtherChoice) {
			return OtherChoice, nil
		} else {
			for _, l := range labels {
				if strings.EqualFold(l, line) {
					return l, nil
				}
			}
		}
		fmt.Fprintf(p.out, "Please enter a number between 0 and %d\n", len(labels))
	}
}
