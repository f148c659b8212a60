package schedulers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubmitCommand(t *testing.T) {
	var s Scheduler = &DirectScheduler{}
	require.Equal(t, "bash -e job.sh", s.SubmitCommand("job.sh"))

	s = &SlurmScheduler{Partition: "gpu", Account: "lab"}
	require.Equal(t, "sbatch --partition=gpu --account=lab job.sh", s.SubmitCommand("job.sh"))

	s = &SlurmScheduler{}
	require.Equal(t, "sbatch job.sh", s.SubmitCommand("job.sh"))
}
