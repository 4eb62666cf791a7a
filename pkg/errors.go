package k0sperf

import "fmt"

// ErrOpenFile represents an error when opening a file.
type ErrOpenFile struct {
	Filename string
	Err      error
}

func (e *ErrOpenFile) Error() string {
	return fmt.Sprintf("error opening file %q: %v", e.Filename, e.Err)
}

// ErrCreateGroup represents an error when creating a group.
type ErrCreateGroup struct {
	GroupName string
	Err       error
}

func (e *ErrCreateGroup) Error() string {
	return fmt.Sprintf("error creating group %q: %v", e.GroupName, e.Err)
}

// ErrCreateTable represents an error when creating a table.
type ErrCreateTable struct {
	TableName string
	Err       error
}

func (e *ErrCreateTable) Error() string {
	return fmt.Sprintf("error creating table %q: %v", e.TableName, e.Err)
}

// ErrInvalidSelection reports a selection switch holding a value outside
// its enumerated range. Candidate selection treats it as a configuration
// bug and panics rather than silently passing or rejecting.
type ErrInvalidSelection struct {
	Switch string
	Value  int
}

func (e *ErrInvalidSelection) Error() string {
	return fmt.Sprintf("invalid value %d for selection switch %q", e.Value, e.Switch)
}
