package loop

import "github.com/pkg/errors"

var ErrEmptyStack = errors.New("error: empty stack")

// Stack is a stack of blocks, used as the worklist of loop body
// construction.
type Stack struct {
	s []int
}

// NewStack creates a new Stack.
func NewStack() *Stack {
	return &Stack{s: []int{}}
}

// Push adds a block to the top of stack.
func (s *Stack) Push(b int) {
	s.s = append(s.s, b)
}

// Pop removes a block from top of stack.
func (s *Stack) Pop() (int, error) {
	size := len(s.s)
	if size == 0 {
		return -1, ErrEmptyStack
	}
	b := s.s[size-1]
	s.s = s.s[:size-1]
	return b, nil
}

// IsEmpty returns true if stack is empty.
func (s *Stack) IsEmpty() bool {
	return len(s.s) == 0
}

// Len returns the number of blocks in the stack.
func (s *Stack) Len() int {
	return len(s.s)
}
