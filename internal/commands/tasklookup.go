package commands

import (
	"fmt"

	"agenda/internal/service"
	"agenda/internal/tasklist"
)

// lookupTask returns the task at 1-based position num of the visible list.
func lookupTask(st tasklist.State, num int) (service.Task, error) {
	if num < 1 || num > len(st.VisibleTasks) {
		return service.Task{}, fmt.Errorf("task number out of range: %d", num)
	}
	return st.VisibleTasks[num-1], nil
}
