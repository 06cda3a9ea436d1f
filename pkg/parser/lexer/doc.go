// Package lexer implements the streaming SQL tokenizer that feeds the
// statement splitter.
//
// The lexer reads runes from a window.Reader, so arbitrarily large scripts are
// tokenized in bounded memory. Token text is kept exactly as written; keyword
// matching is case-insensitive. Concatenating the values of all tokens
// reproduces the input.
//
// # Usage
//
//	l, err := lexer.FromReader(f, window.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	for {
//	    tok, err := l.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Printf("%s %q\n", tok.Type, tok.Value)
//	}
//
// # Token types
//
// Spaces and tabs are Whitespace, line breaks are Newline. "--" and "# "
// comments run to the end of the line and include the line break;
// block comments are CommentMultiline. Words are KeywordDML (SELECT, INSERT,
// ...), KeywordDDL (CREATE, DROP, ...), Keyword or Name. A few keyword pairs
// are emitted as one token: END IF, END FOR, END WHILE, END LOOP,
// CREATE OR REPLACE, ORDER BY, GROUP BY. GO at the start of a line, with an
// optional repeat count, is a Keyword; anywhere else it is a Name.
package lexer
