package lightning

import (
	"errors"
	"fmt"

	"github.com/bolt-observer/nodectl/entities"
)

// Error classes, match them with errors.Is
var (
	ErrNetwork       = errors.New("node unreachable")
	ErrAuth          = errors.New("credentials rejected")
	ErrProtocol      = errors.New("unexpected response")
	ErrTimeout       = errors.New("node did not become reachable")
	ErrConfiguration = errors.New("invalid configuration")
	ErrChannelOpen   = errors.New("channel open failed")
	ErrPayment       = errors.New("payment failed")
	ErrNoChannel     = errors.New("channel not found")
)

// NativeAPIError is a request rejected by the node itself. Message is kept verbatim.
type NativeAPIError struct {
	Code    int
	Message string
}

func (e *NativeAPIError) Error() string {
	return fmt.Sprintf("native error %d: %s", e.Code, e.Message)
}

// classified attaches one of the error classes to an underlying error
type classified struct {
	class error
	err   error
}

func (c *classified) Error() string {
	if c.err == nil {
		return c.class.Error()
	}
	return fmt.Sprintf("%v: %v", c.class, c.err)
}

func (c *classified) Unwrap() error {
	return c.err
}

func (c *classified) Is(target error) bool {
	return target == c.class
}

func classify(class error, err error) error {
	return &classified{class: class, err: err}
}

func classifyf(class error, format string, args ...any) error {
	return classify(class, fmt.Errorf(format, args...))
}

// NodeError decorates a failure with the node it happened on
type NodeError struct {
	Node           string
	Implementation entities.Implementation
	Endpoint       string
	Op             string
	Err            error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("%s %s (%s) %s: %v", e.Implementation, e.Node, e.Endpoint, e.Op, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

func decorate(node *entities.NodeDescriptor, op string, err error) error {
	if err == nil {
		return nil
	}

	var already *NodeError
	if errors.As(err, &already) {
		return err
	}

	if node == nil {
		return &NodeError{Op: op, Err: err}
	}

	return &NodeError{
		Node:           node.Name,
		Implementation: node.Implementation,
		Endpoint:       node.RESTHost(),
		Op:             op,
		Err:            err,
	}
}

// IsConfigurationError returns true for configuration faults (never worth retrying)
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// rejected classifies err when the node itself refused the request, other failures keep their class
func rejected(class error, err error) error {
	var native *NativeAPIError
	if errors.As(err, &native) {
		return classify(class, err)
	}

	return err
}
