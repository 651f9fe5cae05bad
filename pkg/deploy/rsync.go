package deploy

import (
	"strings"

	"github.com/torikatsu/botdeploy/pkg/config"
)

// TransferJob is one local-to-remote rsync invocation.
type TransferJob struct {
	Group  FileGroup
	Source string
	Dest   string
}

// rsyncArgs returns the rsync argument list for the job: one-way,
// update-if-newer, compressed.
func (j TransferJob) rsyncArgs() []string {
	return []string{"-uvz", j.Source, j.Dest}
}

// CommandLine returns the full rsync command line for display.
func (j TransferJob) CommandLine() string {
	return "rsync " + strings.Join(j.rsyncArgs(), " ")
}

// transferJobs builds the rsync jobs for the selected groups in canonical
// transfer order. buildTarget selects the local bot binary path.
func transferJobs(cfg *config.Config, groups []FileGroup, buildTarget string) []TransferJob {
	dest := cfg.RemoteDest()

	var jobs []TransferJob
	if containsGroup(groups, GroupBot) {
		jobs = append(jobs, TransferJob{
			Group:  GroupBot,
			Source: cfg.BotBinaryPath(buildTarget),
			Dest:   dest,
		})
	}
	if containsGroup(groups, GroupModel) {
		jobs = append(jobs, TransferJob{
			Group:  GroupModel,
			Source: cfg.ModelPath,
			Dest:   dest,
		})
	}
	if containsGroup(groups, GroupConfig) {
		for _, file := range cfg.ConfigFiles {
			jobs = append(jobs, TransferJob{Group: GroupConfig, Source: file, Dest: dest})
		}
		jobs = append(jobs, TransferJob{Group: GroupConfig, Source: cfg.CrontabFile, Dest: dest})
	}
	return jobs
}
