// Package ec2 resolves the deployment target instance by its Name tag and
// manages its lifecycle around a deployment.
package ec2

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	awsec2 "github.com/aws/aws-sdk-go/service/ec2"

	"github.com/torikatsu/botdeploy/pkg/deploy"
)

// API is the subset of the EC2 client used by Manager. Tests substitute a
// fake.
type API interface {
	DescribeInstancesWithContext(ctx aws.Context, input *awsec2.DescribeInstancesInput, opts ...request.Option) (*awsec2.DescribeInstancesOutput, error)
	StartInstancesWithContext(ctx aws.Context, input *awsec2.StartInstancesInput, opts ...request.Option) (*awsec2.StartInstancesOutput, error)
	StopInstancesWithContext(ctx aws.Context, input *awsec2.StopInstancesInput, opts ...request.Option) (*awsec2.StopInstancesOutput, error)
	WaitUntilInstanceRunningWithContext(ctx aws.Context, input *awsec2.DescribeInstancesInput, opts ...request.WaiterOption) error
	WaitUntilInstanceStoppedWithContext(ctx aws.Context, input *awsec2.DescribeInstancesInput, opts ...request.WaiterOption) error
}

// NotFoundError is returned when no instance carries the requested Name tag.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no instance found with Name tag %q", e.Name)
}

// Manager implements deploy.InstanceService on the EC2 API.
type Manager struct {
	api API
}

// New creates a Manager using the given AWS session.
func New(sess *session.Session) *Manager {
	return &Manager{api: awsec2.New(sess)}
}

// NewWithAPI creates a Manager with a custom API implementation.
func NewWithAPI(api API) *Manager {
	return &Manager{api: api}
}

// NewSession creates an AWS session honoring shared config (profiles,
// region). A non-empty region overrides the shared config.
func NewSession(region string) (*session.Session, error) {
	opts := session.Options{
		SharedConfigState: session.SharedConfigEnable,
	}
	if region != "" {
		opts.Config = aws.Config{Region: aws.String(region)}
	}

	sess, err := session.NewSessionWithOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return sess, nil
}

// Resolve looks up the instance carrying the given Name tag. When several
// instances match, the first one returned by the API wins and the match
// count is reported so the caller can warn.
func (m *Manager) Resolve(ctx context.Context, nameTag string) (deploy.Instance, error) {
	out, err := m.api.DescribeInstancesWithContext(ctx, &awsec2.DescribeInstancesInput{
		Filters: []*awsec2.Filter{
			{
				Name:   aws.String("tag:Name"),
				Values: aws.StringSlice([]string{nameTag}),
			},
		},
	})
	if err != nil {
		return deploy.Instance{}, fmt.Errorf("describe instances: %w", err)
	}

	var found []*awsec2.Instance
	for _, reservation := range out.Reservations {
		found = append(found, reservation.Instances...)
	}
	if len(found) == 0 {
		return deploy.Instance{}, &NotFoundError{Name: nameTag}
	}

	inst := found[0]
	resolved := deploy.Instance{
		ID:           aws.StringValue(inst.InstanceId),
		Architecture: aws.StringValue(inst.Architecture),
		Matches:      len(found),
	}
	if inst.State != nil {
		resolved.State = aws.StringValue(inst.State.Name)
	}
	return resolved, nil
}

// Start starts the instance and blocks until EC2 reports it running.
func (m *Manager) Start(ctx context.Context, id string) error {
	_, err := m.api.StartInstancesWithContext(ctx, &awsec2.StartInstancesInput{
		InstanceIds: aws.StringSlice([]string{id}),
	})
	if err != nil {
		return fmt.Errorf("start instance %s: %w", id, err)
	}

	err = m.api.WaitUntilInstanceRunningWithContext(ctx, &awsec2.DescribeInstancesInput{
		InstanceIds: aws.StringSlice([]string{id}),
	})
	if err != nil {
		return fmt.Errorf("wait for instance %s to run: %w", id, err)
	}
	return nil
}

// Stop stops the instance and blocks until EC2 reports it stopped.
func (m *Manager) Stop(ctx context.Context, id string) error {
	_, err := m.api.StopInstancesWithContext(ctx, &awsec2.StopInstancesInput{
		InstanceIds: aws.StringSlice([]string{id}),
	})
	if err != nil {
		return fmt.Errorf("stop instance %s: %w", id, err)
	}

	err = m.api.WaitUntilInstanceStoppedWithContext(ctx, &awsec2.DescribeInstancesInput{
		InstanceIds: aws.StringSlice([]string{id}),
	})
	if err != nil {
		return fmt.Errorf("wait for instance %s to stop: %w", id, err)
	}
	return nil
}
