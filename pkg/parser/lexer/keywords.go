package lexer

import "sqlsplit/pkg/parser/token"

// keywords maps upper-case words to their token types. Words not listed here
// are names.
var keywords = map[string]token.TokenType{
	"SELECT":  token.KeywordDML,
	"INSERT":  token.KeywordDML,
	"UPDATE":  token.KeywordDML,
	"DELETE":  token.KeywordDML,
	"MERGE":   token.KeywordDML,
	"UPSERT":  token.KeywordDML,
	"REPLACE": token.KeywordDML,

	"CREATE":   token.KeywordDDL,
	"DROP":     token.KeywordDDL,
	"ALTER":    token.KeywordDDL,
	"TRUNCATE": token.KeywordDDL,

	"ALL":         token.Keyword,
	"AND":         token.Keyword,
	"AS":          token.Keyword,
	"ASC":         token.Keyword,
	"BEGIN":       token.Keyword,
	"BETWEEN":     token.Keyword,
	"BY":          token.Keyword,
	"CALL":        token.Keyword,
	"CASE":        token.Keyword,
	"COMMIT":      token.Keyword,
	"DECLARE":     token.Keyword,
	"DEFAULT":     token.Keyword,
	"DESC":        token.Keyword,
	"DISTINCT":    token.Keyword,
	"DO":          token.Keyword,
	"ELSE":        token.Keyword,
	"ELSEIF":      token.Keyword,
	"END":         token.Keyword,
	"EXCEPT":      token.Keyword,
	"EXISTS":      token.Keyword,
	"FOR":         token.Keyword,
	"FROM":        token.Keyword,
	"FUNCTION":    token.Keyword,
	"GROUP":       token.Keyword,
	"HAVING":      token.Keyword,
	"IF":          token.Keyword,
	"IN":          token.Keyword,
	"INDEX":       token.Keyword,
	"INNER":       token.Keyword,
	"INTERSECT":   token.Keyword,
	"INTO":        token.Keyword,
	"IS":          token.Keyword,
	"JOIN":        token.Keyword,
	"KEY":         token.Keyword,
	"LEFT":        token.Keyword,
	"LIKE":        token.Keyword,
	"LIMIT":       token.Keyword,
	"LOOP":        token.Keyword,
	"NOT":         token.Keyword,
	"NULL":        token.Keyword,
	"OFFSET":      token.Keyword,
	"ON":          token.Keyword,
	"OR":          token.Keyword,
	"ORDER":       token.Keyword,
	"OUTER":       token.Keyword,
	"PRIMARY":     token.Keyword,
	"PROCEDURE":   token.Keyword,
	"RETURN":      token.Keyword,
	"RETURNS":     token.Keyword,
	"RIGHT":       token.Keyword,
	"ROLLBACK":    token.Keyword,
	"SET":         token.Keyword,
	"TABLE":       token.Keyword,
	"THEN":        token.Keyword,
	"TRANSACTION": token.Keyword,
	"TRIGGER":     token.Keyword,
	"UNION":       token.Keyword,
	"UNIQUE":      token.Keyword,
	"USING":       token.Keyword,
	"VALUES":      token.Keyword,
	"VIEW":        token.Keyword,
	"WHEN":        token.Keyword,
	"WHERE":       token.Keyword,
	"WHILE":       token.Keyword,
	"WITH":        token.Keyword,
}

// compounds lists keywords that are emitted as one token together with the
// words that follow them.
var compounds = map[string][][]string{
	"END":    {{"IF"}, {"FOR"}, {"WHILE"}, {"LOOP"}},
	"CREATE": {{"OR", "REPLACE"}},
	"ORDER":  {{"BY"}},
	"GROUP":  {{"BY"}},
}
