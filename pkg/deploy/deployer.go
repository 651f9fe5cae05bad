package deploy

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/torikatsu/botdeploy/pkg/config"
)

// Instance is the resolved deployment target instance.
type Instance struct {
	ID           string // EC2 instance id
	Architecture string // CPU architecture as reported by the provider
	State        string // instance state at resolution time
	Matches      int    // how many instances carried the Name tag
}

// InstanceService manages the EC2 instance around a deployment. Implemented
// by ec2.Manager; tests substitute a fake.
type InstanceService interface {
	// Resolve looks up the instance carrying the given Name tag.
	Resolve(ctx context.Context, nameTag string) (Instance, error)

	// Start starts the instance and blocks until it is running.
	Start(ctx context.Context, id string) error

	// Stop stops the instance and blocks until it is stopped.
	Stop(ctx context.Context, id string) error
}

// DeployOptions selects what a single deployment run does.
type DeployOptions struct {
	// Groups are the file groups to transfer. An empty selection is an
	// invalid invocation and fails before any transfer.
	Groups []FileGroup

	// ManageInstance starts the instance before the transfers and stops it
	// after the remote install step.
	ManageInstance bool
}

// DeployResult represents the outcome of a deployment run.
type DeployResult struct {
	ID        string // unique id for this run
	Success   bool
	Duration  time.Duration
	Instance  *Instance     // set when the instance was resolved
	Transfers []TransferJob // transfers that were issued
	Skipped   []FileGroup   // groups that were not selected
	Logs      []string      // captured subprocess output
	Error     error
}

// Deployer executes the deployment procedure against one host.
type Deployer struct {
	cfg       *config.Config
	runner    CommandRunner
	instances InstanceService
}

// New creates a Deployer for the given configuration.
func New(cfg *config.Config, runner CommandRunner) *Deployer {
	return &Deployer{
		cfg:    cfg,
		runner: runner,
	}
}

// SetInstanceService wires in instance lifecycle management. Without it,
// DeployOptions.ManageInstance fails validation.
func (d *Deployer) SetInstanceService(s InstanceService) {
	d.instances = s
}

// Deploy runs the deployment procedure: optionally resolve and start the
// instance, transfer the selected file groups, run the remote install step,
// and optionally stop the instance again.
func (d *Deployer) Deploy(ctx context.Context, opts DeployOptions, progress ProgressCallback) (*DeployResult, error) {
	if progress == nil {
		progress = NoOpProgress
	}

	result := &DeployResult{
		ID: uuid.New().String(),
	}
	start := time.Now()

	progress(NewProgressEvent(StageValidating, "Validating configuration...", 2))
	if len(opts.Groups) == 0 {
		return d.fail(result, ErrNoFileGroups, start, progress), ErrNoFileGroups
	}
	if err := d.cfg.Validate(); err != nil {
		return d.fail(result, err, start, progress), err
	}
	if opts.ManageInstance && d.instances == nil {
		err := fmt.Errorf("instance lifecycle management requested but no instance service is configured")
		return d.fail(result, err, start, progress), err
	}

	for _, g := range AllFileGroups() {
		if !containsGroup(opts.Groups, g) {
			result.Skipped = append(result.Skipped, g)
		}
	}

	buildTarget := d.cfg.BuildTarget
	started := false

	if opts.ManageInstance {
		progress(NewProgressEventWithCommand(
			StageResolving,
			fmt.Sprintf("Resolving instance %q...", d.cfg.Hostname),
			fmt.Sprintf("ec2:DescribeInstances tag:Name=%s", d.cfg.Hostname),
			5,
		))
		inst, err := d.instances.Resolve(ctx, d.cfg.Hostname)
		if err != nil {
			return d.fail(result, err, start, progress), err
		}
		result.Instance = &inst
		if inst.Matches > 1 {
			result.Logs = append(result.Logs,
				fmt.Sprintf("warning: %d instances match Name tag %q, using %s", inst.Matches, d.cfg.Hostname, inst.ID))
		}

		buildTarget, err = BuildTarget(inst.Architecture)
		if err != nil {
			return d.fail(result, err, start, progress), err
		}

		progress(NewProgressEventWithCommand(
			StageStarting,
			fmt.Sprintf("Starting instance %s...", inst.ID),
			fmt.Sprintf("ec2:StartInstances %s", inst.ID),
			15,
		))
		if err := d.instances.Start(ctx, inst.ID); err != nil {
			return d.fail(result, err, start, progress), err
		}
		started = true
	}

	jobs := transferJobs(d.cfg, opts.Groups, buildTarget)
	result.Transfers = jobs

	for _, g := range result.Skipped {
		progress(NewProgressEvent(StageTransfer, fmt.Sprintf("skip %s", g), -1))
	}

	// Transfers span 20-70%.
	for i, job := range jobs {
		percent := 20 + (i+1)*50/len(jobs)
		progress(NewProgressEventWithCommand(
			StageTransfer,
			fmt.Sprintf("rsync %s:", filepath.Base(job.Source)),
			job.CommandLine(),
			percent,
		))
		res, err := d.runner.Run(ctx, "rsync", job.rsyncArgs()...)
		d.appendOutput(result, res)
		if err != nil {
			err = fmt.Errorf("rsync %s failed: %w%s", job.Source, err, errDetail(res))
			d.stopAfterFailure(ctx, result, started, progress)
			return d.fail(result, err, start, progress), err
		}
	}

	script := installScript(d.cfg.RemoteUser, d.cfg.RemoteDir, d.cfg.CrontabFile)
	progress(NewProgressEventWithCommand(
		StageInstalling,
		fmt.Sprintf("Installing on %s...", d.cfg.Hostname),
		"ssh "+strings.Join(sshArgs(d.cfg.Hostname), " "),
		85,
	))
	res, err := d.runner.RunWithStdin(ctx, script, "ssh", sshArgs(d.cfg.Hostname)...)
	d.appendOutput(result, res)
	if err != nil {
		err = fmt.Errorf("remote install on %s failed: %w%s", d.cfg.Hostname, err, errDetail(res))
		d.stopAfterFailure(ctx, result, started, progress)
		return d.fail(result, err, start, progress), err
	}

	if started {
		progress(NewProgressEventWithCommand(
			StageStopping,
			fmt.Sprintf("Stopping instance %s...", result.Instance.ID),
			fmt.Sprintf("ec2:StopInstances %s", result.Instance.ID),
			95,
		))
		if err := d.instances.Stop(ctx, result.Instance.ID); err != nil {
			return d.fail(result, err, start, progress), err
		}
	}

	progress(NewProgressEvent(StageComplete, "Deployment complete!", 100))
	result.Success = true
	result.Duration = time.Since(start)
	return result, nil
}

// fail records a failure and returns the result.
func (d *Deployer) fail(result *DeployResult, err error, start time.Time, progress ProgressCallback) *DeployResult {
	result.Success = false
	result.Error = err
	result.Duration = time.Since(start)
	progress(NewErrorEvent(err.Error()))
	return result
}

// stopAfterFailure stops an instance this run started when a later step
// fails, so a broken deploy does not leave the instance running. The stop
// error is logged, not returned; the deploy error takes precedence.
func (d *Deployer) stopAfterFailure(ctx context.Context, result *DeployResult, started bool, progress ProgressCallback) {
	if !started || result.Instance == nil {
		return
	}
	progress(NewProgressEvent(StageStopping, fmt.Sprintf("Stopping instance %s after failure...", result.Instance.ID), -1))
	if err := d.instances.Stop(ctx, result.Instance.ID); err != nil {
		result.Logs = append(result.Logs, fmt.Sprintf("warning: failed to stop instance %s: %v", result.Instance.ID, err))
	}
}

// appendOutput records a command's captured output on the result.
func (d *Deployer) appendOutput(result *DeployResult, res CommandResult) {
	if out := strings.TrimSpace(res.Stdout); out != "" {
		result.Logs = append(result.Logs, out)
	}
	if errOut := strings.TrimSpace(res.Stderr); errOut != "" {
		result.Logs = append(result.Logs, errOut)
	}
}

// errDetail renders captured stderr for inclusion in an error message.
func errDetail(res CommandResult) string {
	if msg := strings.TrimSpace(res.Stderr); msg != "" {
		return ": " + msg
	}
	return ""
}
