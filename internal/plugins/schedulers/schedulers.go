// Package schedulers provides the bundled job schedulers.
package schedulers

import (
	"fmt"
	"strings"

	"github.com/zjrosen/entrypoints/internal/loader"
)

func init() {
	loader.RegisterType(func() *DirectScheduler { return &DirectScheduler{} })
	loader.RegisterType(func() *SlurmScheduler { return &SlurmScheduler{Partition: "default"} })
}

// Scheduler turns a job script into the command that submits it.
type Scheduler interface {
	SubmitCommand(script string) string
}

// DirectScheduler runs jobs immediately in a shell.
type DirectScheduler struct{}

// SubmitCommand implements Scheduler.
func (s *DirectScheduler) SubmitCommand(script string) string {
	return "bash -e " + script
}

func (s *DirectScheduler) String() string { return "direct scheduler" }

// SlurmScheduler submits jobs with sbatch.
type SlurmScheduler struct {
	Partition string
	Account   string
}

// SubmitCommand implements Scheduler.
func (s *SlurmScheduler) SubmitCommand(script string) string {
	args := []string{"sbatch"}
	if s.Partition != "" {
		args = append(args, "--partition="+s.Partition)
	}
	if s.Account != "" {
		args = append(args, "--account="+s.Account)
	}
	return strings.Join(append(args, script), " ")
}

func (s *SlurmScheduler) String() string {
	return fmt.Sprintf("slurm scheduler (partition %s)", s.Partition)
}
