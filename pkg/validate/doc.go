// Package validate checks split statements with a real SQL grammar.
//
// The splitter decides where statements end without parsing them. This
// package parses each statement with github.com/xwb1989/sqlparser (a MySQL
// dialect parser) and reports which ones the grammar rejects. Statements the
// grammar cannot express at all, such as GO batch separators or stored
// procedure bodies, are reported as Skipped rather than Invalid.
package validate
