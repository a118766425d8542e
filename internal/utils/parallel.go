package utils

import (
	"errors"
	"sync"
)

// ParallelTask is one independent unit of work run by RunParallelTasks.
type ParallelTask func() error

// RunParallelTasks runs every task in its own goroutine, waits for all of
// them and joins their errors.
func RunParallelTasks(tasks ...ParallelTask) error {
	var wg sync.WaitGroup
	errs := make([]error, len(tasks))

	wg.Add(len(tasks))
	for i, task := range tasks {
		go func(index int, t ParallelTask) {
			defer wg.Done()
			errs[index] = t()
		}(i, task)
	}

	wg.Wait()
	return errors.Join(errs...)
}
