// Package dsl 是文本前端：把 `doc name { … }` 形式的描述解析成 AST，再
// 编译成与 JSON 前端同构的声明式文档。两个前端在 doc 包汇合，共享同一
// 个元素构建层。
package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+)(?:pt|mm|cm|in|%|x)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[][(),.=+\-*/%<>!?;:]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	tokenNames   = tokenNameTable()
	newlineToken = tokenType("Newline")
	lbraceToken  = tokenType("LBrace")
	rbraceToken  = tokenType("RBrace")
	symbolToken  = tokenType("Symbol")
	stringToken  = tokenType("String")

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document 是一份 DSL 文件的根节点：`doc 名字 { 段… }`。
type Document struct {
	Pos      lexer.Position `parser:""`
	Name     string         `parser:"Newline* 'doc' @Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section 是顶层段落，meta 或 entry 二选一。
type Section struct {
	Meta  *MetaSection  `parser:"  @@"`
	Entry *EntrySection `parser:"| @@"`
}

// Kind 返回段落种类名，用于错误提示。
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return "meta"
	case s.Entry != nil:
		return "entry"
	default:
		return "unknown"
	}
}

// MetaSection 收集文档元数据赋值。
type MetaSection struct {
	Block *Block `parser:"'meta' @@"`
}

// EntrySection 描述一个渲染条目。可选的尺寸标识是命名纸张（a4、a5、
// letter 等），块里的显式 size 赋值覆盖它。
type EntrySection struct {
	Size  string `parser:"'entry' @Ident?"`
	Block *Block `parser:"@@"`
}

// Block 是花括号包起来的语句表。
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement 是块内的一条语句：赋值、命令或裸字符串。
type Statement struct {
	Assignment *Assignment  `parser:"  @@"`
	Command    *Command     `parser:"| @@"`
	Text       *TextLiteral `parser:"| @@"`
}

// Assignment 是 `key: value` 形式的属性赋值。
type Assignment struct {
	Key   string `parser:"@Ident"`
	Value *Value `parser:"':' Newline* @@"`
}

// Command 是元素命令：命令名、参数流和可选的子块。
type Command struct {
	Pos   lexer.Position `parser:""`
	Name  string         `parser:"@Ident"`
	Args  []*Token       `parser:"@@*"`
	Block *Block         `parser:"( Newline* @@ )?"`
}

// TextLiteral 是块里独立一行的字符串，text 命令用它装正文。
type TextLiteral struct {
	Value StringLiteral `parser:"@String"`
}

// Value 是赋值右侧的值。裸标识符留给编译层解释，比如对齐方式名。
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	Array  *ArrayValue    `parser:"| @@"`
	Object *InlineObject  `parser:"| @@"`
	Ident  *string        `parser:"| @Ident"`
}

// ArrayValue 是 `[ … ]`，元素用逗号、分号或换行分隔。
type ArrayValue struct {
	Values []*Value `parser:"'[' Newline* ( @@ ( (',' | ';' | Newline+) Newline* @@ )* )? Newline* ']'"`
}

// InlineObject 是 `{ key: value … }` 内联映射。
type InlineObject struct {
	Entries []*Assignment `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Token 是命令参数流里的单个词：类别、解码后的值和原文。
type Token struct {
	Type  string
	Value string
	Raw   string
	Pos   lexer.Position
}

// Parse 实现 participle.Parseable，让 Token 充当文法原子。参数流到换行、
// 块边界或分号为止。
func (t *Token) Parse(lex *lexer.PeekingLexer) error {
	if argBoundary(lex.Peek()) {
		return participle.NextMatch
	}
	tok, err := nextToken(lex)
	if err != nil {
		return err
	}
	*t = *tok
	return nil
}

// StringLiteral 在捕获时按 Go 规则去引号。
type StringLiteral string

// Capture 实现 participle.Capture。
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("字符串捕获缺少值")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse 从 r 读取并解析 DSL 文档。
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString 解析字符串形式的 DSL 文档。
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}

func argBoundary(tok *lexer.Token) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	switch tok.Type {
	case newlineToken, rbraceToken, lbraceToken:
		return true
	case symbolToken:
		return tok.Value == ";"
	default:
		return false
	}
}

func nextToken(lex *lexer.PeekingLexer) (*Token, error) {
	tok := lex.Next()
	if tok.EOF() {
		return nil, participle.NextMatch
	}

	name, ok := tokenNames[tok.Type]
	if !ok {
		name = fmt.Sprintf("#%d", tok.Type)
	}
	val := tok.Value
	if tok.Type == stringToken {
		unquoted, err := strconv.Unquote(tok.Value)
		if err != nil {
			return nil, err
		}
		val = unquoted
	}
	return &Token{Type: name, Value: val, Raw: tok.Value, Pos: tok.Pos}, nil
}

func tokenNameTable() map[lexer.TokenType]string {
	symbols := dslLexer.Symbols()
	out := make(map[lexer.TokenType]string, len(symbols))
	for name, tt := range symbols {
		out[tt] = name
	}
	return out
}

func tokenType(name string) lexer.TokenType {
	tt, ok := dslLexer.Symbols()[name]
	if !ok {
		panic(fmt.Sprintf("词法规则 %s 未定义", name))
	}
	return tt
}
