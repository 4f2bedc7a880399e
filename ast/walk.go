package ast

import "errors"

// Walk calls f on all nodes reachable from the root node.
// The node returned will replace the node provided within the AST.
// Returning an error from f will stop the walking process and f will not be called on any other nodes.
func Walk(root Node, f func(n Node) (Node, error)) (Node, error) {
	replacement, err := f(root)
	if err != nil {
		return nil, err
	}
	switch node := replacement.(type) {
	case *UnaryNode:
		r, err := Walk(node.Node, f)
		if err != nil {
			return nil, err
		}
		node.Node = r
	case *BinaryNode:
		r, err := Walk(node.Left, f)
		if err != nil {
			return nil, err
		}
		node.Left = r
		r, err = Walk(node.Right, f)
		if err != nil {
			return nil, err
		}
		node.Right = r
	case *IndexNode:
		r, err := Walk(node.Target, f)
		if err != nil {
			return nil, err
		}
		node.Target = r
		r, err = Walk(node.Index, f)
		if err != nil {
			return nil, err
		}
		node.Index = r
	case *AssignNode:
		r, err := Walk(node.Left, f)
		if err != nil {
			return nil, err
		}
		ident, ok := r.(*IdentifierNode)
		if !ok {
			return nil, errors.New("assign node must always have an IdentifierNode")
		}
		node.Left = ident
		r, err = Walk(node.Right, f)
		if err != nil {
			return nil, err
		}
		node.Right = r
	case *CallNode:
		for i := range node.Args {
			r, err := Walk(node.Args[i].Value, f)
			if err != nil {
				return nil, err
			}
			node.Args[i].Value = r
		}
	case *FunctionDefNode:
		for i := range node.Params {
			if node.Params[i].Default == nil {
				continue
			}
			r, err := Walk(node.Params[i].Default, f)
			if err != nil {
				return nil, err
			}
			node.Params[i].Default = r
		}
		r, err := Walk(node.Body, f)
		if err != nil {
			return nil, err
		}
		node.Body = r
	case *IfNode:
		r, err := Walk(node.Cond, f)
		if err != nil {
			return nil, err
		}
		node.Cond = r
		r, err = Walk(node.Then, f)
		if err != nil {
			return nil, err
		}
		block, ok := r.(*BlockNode)
		if !ok {
			return nil, errors.New("if node must always have a BlockNode consequent")
		}
		node.Then = block
		if node.Else != nil {
			r, err = Walk(node.Else, f)
			if err != nil {
				return nil, err
			}
			node.Else = r
		}
	case *BlockNode:
		for i := range node.Nodes {
			r, err := Walk(node.Nodes[i], f)
			if err != nil {
				return nil, err
			}
			node.Nodes[i] = r
		}
	case *ProgramNode:
		for i := range node.Nodes {
			r, err := Walk(node.Nodes[i], f)
			if err != nil {
				return nil, err
			}
			node.Nodes[i] = r
		}
	}
	return replacement, nil
}
