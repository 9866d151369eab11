// Package helptree lists the usage of every command in a command tree.
package helptree

import "github.com/spf13/cobra"

// Node is one command and its subcommands. Nodes are not modified after
// construction.
type Node struct {
	name     string
	usage    string
	children []*Node
}

// New returns a node with the given children in display order.
func New(name, usage string, children ...*Node) *Node {
	return &Node{name: name, usage: usage, children: append([]*Node(nil), children...)}
}

func (n *Node) Name() string  { return n.name }
func (n *Node) Usage() string { return n.usage }

// Children returns a copy of the subcommand list.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// LevelOrder returns the usage of root and all its descendants breadth first:
// root, then its children, then their children, each level in declared order.
func LevelOrder(root *Node) []string {
	if root == nil {
		return nil
	}
	var usages []string
	queue := []*Node{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		usages = append(usages, n.usage)
		queue = append(queue, n.children...)
	}
	return usages
}

// FromCommand builds a tree from a cobra command hierarchy. Hidden commands
// and the generated help and completion commands are left out.
func FromCommand(cmd *cobra.Command) *Node {
	var children []*Node
	for _, sub := range cmd.Commands() {
		if !sub.IsAvailableCommand() || sub.Name() == "completion" {
			continue
		}
		children = append(children, FromCommand(sub))
	}
	return New(cmd.Name(), "usage: "+cmd.UseLine(), children...)
}
