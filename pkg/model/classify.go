// Package model derives database facts from Active Record class definitions:
// whether a class is a model, which table backs it, and which columns a
// relation name stands for.
package model

import "github.com/leapstack-labs/recordlint/pkg/ast"

// Base class identifiers recognized as the ORM root.
const (
	ApplicationRecord = "ApplicationRecord"
	ActiveRecord      = "ActiveRecord"
	BaseClass         = "Base"
)

// IsBaseClass reports whether node references ApplicationRecord or
// ActiveRecord::Base, optionally rooted with "::".
func IsBaseClass(node *ast.Node) bool {
	if !node.Is(ast.TypeConst) {
		return false
	}
	scope := node.Child(0)
	switch node.ConstName() {
	case ApplicationRecord:
		return isTopLevel(scope)
	case BaseClass:
		return scope.Is(ast.TypeConst) && scope.ConstName() == ActiveRecord && isTopLevel(scope.Child(0))
	default:
		return false
	}
}

func isTopLevel(scope *ast.Node) bool {
	return scope == nil || scope.Is(ast.TypeCBase)
}

// InheritsFromBase reports whether node, or any class enclosing it, declares
// a superclass accepted by IsBaseClass. The whole chain of enclosing classes
// is walked because a reopened or nested class may sit several levels below
// the declaration that names the base class.
func InheritsFromBase(node *ast.Node) bool {
	if node == nil {
		return false
	}
	if c, ok := ast.AsClass(node); ok && IsBaseClass(c.Superclass()) {
		return true
	}
	for a := range node.Ancestors() {
		if c, ok := ast.AsClass(a); ok && IsBaseClass(c.Superclass()) {
			return true
		}
	}
	return false
}

// IsAbstract reports whether the class body sets `self.abstract_class = true`.
func IsAbstract(class *ast.Class) bool {
	return ast.FindFirstInScope(class.Node(), isAbstractClassAssignment) != nil
}

func isAbstractClassAssignment(n *ast.Node) bool {
	return ast.IsSelfSend("abstract_class=")(n) && n.FirstArgument().IsTrue()
}
