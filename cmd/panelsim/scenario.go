package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of frames replayed over one connection.
type Scenario struct {
	Name  string         `yaml:"name"`
	Steps []ScenarioStep `yaml:"steps"`
}

type ScenarioStep struct {
	// Raw overrides the assembled frame; useful for malformed traffic.
	Raw       string        `yaml:"raw,omitempty"`
	Protocol  string        `yaml:"protocol,omitempty"`
	Account   string        `yaml:"account,omitempty"`
	Qualifier string        `yaml:"qualifier,omitempty"`
	Code      string        `yaml:"code,omitempty"`
	Zone      string        `yaml:"zone,omitempty"`
	Delay     time.Duration `yaml:"delay,omitempty"`
	// ExpectAck documents the intended receiver behavior; a mismatch is
	// reported but does not stop the run.
	ExpectAck *bool `yaml:"expect_ack,omitempty"`
}

func runScenario(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read scenario: %w", err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return fmt.Errorf("failed to parse scenario: %w", err)
	}

	conn, err := dial()
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("running scenario %q (%d steps)\n", sc.Name, len(sc.Steps))

	mismatches := 0
	for i, step := range sc.Steps {
		if step.Delay > 0 {
			time.Sleep(step.Delay)
		}

		var frame []byte
		if step.Raw != "" {
			frame = []byte(step.Raw)
		} else {
			frame, err = buildFrame(step.Protocol, step.Account, step.Qualifier, step.Code, step.Zone)
			if err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		}

		acked, err := sendFrame(conn, frame)
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}

		status := "no-ack"
		if acked {
			status = "ack"
		}
		fmt.Printf("  step %d: %q -> %s\n", i+1, frame, status)

		if step.ExpectAck != nil && *step.ExpectAck != acked {
			mismatches++
			fmt.Printf("  step %d: expected ack=%v, got ack=%v\n", i+1, *step.ExpectAck, acked)
		}
	}

	if mismatches > 0 {
		return fmt.Errorf("%d steps did not behave as expected", mismatches)
	}
	fmt.Println("scenario complete")
	return nil
}
