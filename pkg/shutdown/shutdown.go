package shutdown

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marcodd23/go-pgasync/pkg/logx"
)

// Task - unit of work run by RunTask. ctx is cancelled when SIGINT or SIGTERM is received.
type Task func(ctx context.Context) error

// Cleanup - releases resources once the task is over. ctx carries the cleanup deadline.
type Cleanup func(ctx context.Context) error

// RunTask runs task until it returns or a termination signal arrives, then runs cleanup
// bounded by cleanupTimeout.
//
// On a signal the task context is cancelled and RunTask waits for the task to return
// before cleaning up, so a connection is never closed under an in-flight command.
//
// Returns the task error, or the cleanup error when the task succeeded.
//
// Usage:
//
//	err := shutdown.RunTask(ctx, 5*time.Second,
//	    func(ctx context.Context) error { return runQueries(ctx, session) },
//	    func(ctx context.Context) error { return conn.Close(ctx) })
func RunTask(rootCtx context.Context, cleanupTimeout time.Duration, task Task, cleanup Cleanup) error {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigs)

	return run(rootCtx, sigs, cleanupTimeout, task, cleanup)
}

func run(rootCtx context.Context, sigs <-chan os.Signal, cleanupTimeout time.Duration, task Task, cleanup Cleanup) error {
	taskCtx, cancel := context.WithCancel(rootCtx)
	defer cancel()

	taskCompleted := make(chan error, 1)

	go func() {
		taskCompleted <- task(taskCtx)
	}()

	var taskErr error

	select {
	case sig := <-sigs:
		logx.GetLogger().LogInfo(rootCtx, fmt.Sprintf("Interrupt signal captured: %s", sig.String()))
		cancel()
		taskErr = <-taskCompleted
	case taskErr = <-taskCompleted:
	}

	if taskErr != nil {
		logx.GetLogger().LogError(rootCtx, "Task error", taskErr)
	}

	cleanupErr := cleanUp(rootCtx, cleanupTimeout, cleanup)
	if taskErr != nil {
		return taskErr
	}

	return cleanupErr
}

// cleanUp runs the callback and waits for it or for the deadline, whichever comes first.
func cleanUp(rootCtx context.Context, timeout time.Duration, cleanup Cleanup) error {
	if cleanup == nil {
		return nil
	}

	timeoutCtx, cancel := context.WithTimeout(rootCtx, timeout)
	defer cancel()

	logx.GetLogger().LogInfo(timeoutCtx, "Cleaning up all resources ....")

	done := make(chan error, 1)

	go func() {
		done <- cleanup(timeoutCtx)
	}()

	select {
	case <-timeoutCtx.Done():
		logx.GetLogger().LogError(timeoutCtx, "Deadline exceeded during cleanup", timeoutCtx.Err())
		return timeoutCtx.Err()
	case err := <-done:
		if err != nil {
			logx.GetLogger().LogError(timeoutCtx, "Cleanup error", err)
			return err
		}
		logx.GetLogger().LogInfo(timeoutCtx, "All resources cleaned up")
		return nil
	}
}
