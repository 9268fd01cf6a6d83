// Package cli implements the interactive task management menu.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"task_manager/internal/domain"
	"task_manager/internal/repository"
)

// Store is the subset of the task repository the menu needs.
type Store interface {
	Create(ctx context.Context, t *domain.Task) error
	List(ctx context.Context) ([]*domain.Task, error)
	SetCompleted(ctx context.Context, id int64, completed bool) error
	Delete(ctx context.Context, id int64) error
}

// Menu drives the interactive loop. In and Out are injectable for
// tests.
type Menu struct {
	Store Store
	In    io.Reader
	Out   io.Writer
}

func New(store Store, in io.Reader, out io.Writer) *Menu {
	return &Menu{Store: store, In: in, Out: out}
}

// Run shows the menu until the user exits or input ends. Store errors
// other than not-found abort the loop.
func (m *Menu) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(m.In)
	for {
		fmt.Fprintln(m.Out, "\n--- Task Management CLI ---")
		fmt.Fprintln(m.Out, "1. Add Task")
		fmt.Fprintln(m.Out, "2. List Tasks")
		fmt.Fprintln(m.Out, "3. Mark Task as Completed")
		fmt.Fprintln(m.Out, "4. Delete Task")
		fmt.Fprintln(m.Out, "5. Exit")
		fmt.Fprint(m.Out, "Enter your choice: ")

		choice, ok := readLine(scanner)
		if !ok {
			return scanner.Err()
		}

		var err error
		switch choice {
		case "1":
			err = m.addTask(ctx, scanner)
		case "2":
			err = m.listTasks(ctx)
		case "3":
			err = m.completeTask(ctx, scanner)
		case "4":
			err = m.deleteTask(ctx, scanner)
		case "5":
			fmt.Fprintln(m.Out, "Exiting application. Goodbye!")
			return nil
		default:
			fmt.Fprintln(m.Out, "Invalid choice. Please try again.")
		}
		if err != nil {
			return err
		}
	}
}

func (m *Menu) addTask(ctx context.Context, s *bufio.Scanner) error {
	fmt.Fprint(m.Out, "Enter task description: ")
	description, ok := readLine(s)
	if !ok {
		return s.Err()
	}
	if description == "" {
		fmt.Fprintln(m.Out, "Task description cannot be empty.")
		return nil
	}

	t := &domain.Task{Description: description}
	if err := m.Store.Create(ctx, t); err != nil {
		return err
	}
	fmt.Fprintf(m.Out, "Task '%s' added successfully!\n", description)
	return nil
}

func (m *Menu) listTasks(ctx context.Context) error {
	tasks, err := m.Store.List(ctx)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Fprintln(m.Out, "No tasks found.")
		return nil
	}

	fmt.Fprintln(m.Out, "\n--- Your Tasks ---")
	for _, t := range tasks {
		status := "[PENDING]"
		if t.Completed {
			status = "[COMPLETED]"
		}
		fmt.Fprintf(m.Out, "ID: %d, %s Description: '%s' (Created: %s)\n",
			t.ID, status, t.Description,
			t.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}

func (m *Menu) completeTask(ctx context.Context, s *bufio.Scanner) error {
	id, ok, err := m.readID(s, "Enter the ID of the task to mark as completed: ")
	if err != nil || !ok {
		return err
	}

	switch err := m.Store.SetCompleted(ctx, id, true); {
	case err == nil:
		fmt.Fprintf(m.Out, "Task with ID %d marked as completed.\n", id)
	case errors.Is(err, repository.ErrNotFound):
		fmt.Fprintf(m.Out, "No task found with ID %d. Nothing updated.\n", id)
	default:
		return err
	}
	return nil
}

func (m *Menu) deleteTask(ctx context.Context, s *bufio.Scanner) error {
	id, ok, err := m.readID(s, "Enter the ID of the task to delete: ")
	if err != nil || !ok {
		return err
	}

	switch err := m.Store.Delete(ctx, id); {
	case err == nil:
		fmt.Fprintf(m.Out, "Task with ID %d deleted successfully.\n", id)
	case errors.Is(err, repository.ErrNotFound):
		fmt.Fprintf(m.Out, "No task found with ID %d. Nothing deleted.\n", id)
	default:
		return err
	}
	return nil
}

// readID prompts for a task id. ok is false when the input was not a
// number or the input ended; only the latter can also carry an error.
func (m *Menu) readID(s *bufio.Scanner, prompt string) (int64, bool, error) {
	fmt.Fprint(m.Out, prompt)
	line, ok := readLine(s)
	if !ok {
		return 0, false, s.Err()
	}
	id, err := strconv.ParseInt(line, 10, 64)
	if err != nil {
		fmt.Fprintln(m.Out, "Invalid task ID. Please enter a number.")
		return 0, false, nil
	}
	return id, true, nil
}

func readLine(s *bufio.Scanner) (string, bool) {
	if !s.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.Text()), true
}
