// Package splitter groups a stream of SQL tokens into top-level statements.
//
// The splitter is a state machine driven one token at a time. It tracks
// parenthesis depth and the block structure of stored-program bodies
// (CREATE ... BEGIN ... END, DECLARE sections, CASE/IF/FOR/WHILE inside those
// bodies) so that a semicolon nested inside a body does not end the
// statement. A top-level ";" or a GO batch separator marks a boundary; the
// statement is handed out when the next token that is not a space or a
// single-line comment arrives, so trailing spaces and comments stay with the
// statement they follow.
//
// Statements of the form INSERT ... INTO are dropped entirely.
//
//	s := splitter.New(lexer.New(reader))
//	for {
//	    ok, err := s.HasNext()
//	    if err != nil {
//	        return err
//	    }
//	    if !ok {
//	        break
//	    }
//	    stmt, _ := s.Next()
//	    fmt.Println(stmt.String())
//	}
//
// The splitter never rejects input. Unbalanced parentheses or BEGIN/END
// pairs only move the boundaries it finds.
package splitter
