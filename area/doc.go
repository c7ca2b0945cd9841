// Package area models report templates.
//
// A template is a tree of [Node] values. [Align] lays its children out in
// one direction, [Repeat] instantiates its children once per element of a
// collection, [Table] renders grouped tabular data with merged spans,
// [Row] emits literal cells, [Split] leaves a gap, and [Set] binds a
// variable. Expressions and {{}} templates embedded in nodes are evaluated
// by package lang when a report is built.
//
// A [Template] is the unit loaded from YAML with [Load]: a named style
// sheet and one or more [Sheet] definitions, each rooted at a Node.
//
//	styles:
//	  head: {bold: true, fill: "#DDDDDD", border: thin}
//	sheets:
//	  - name: Staff
//	    root:
//	      table:
//	        show-title: true
//	        title-style: head
//	        levels:
//	          - {data: employees, group-by: dept}
//	          - {}
//	        fields:
//	          - {title: Department, level: 1, value: dept}
//	          - {title: Name, value: name}
//
// The tree is never modified once loaded and holds no parent pointers.
// Builders thread ancestry through their own recursion.
package area
