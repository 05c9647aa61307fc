package dsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/folio-layout/folio/doc"
	"github.com/folio-layout/folio/layout"
)

// 命名页面尺寸，单位毫米。
var paperSizes = map[string][2]float64{
	"a3":     {297, 420},
	"a4":     {210, 297},
	"a5":     {148, 210},
	"letter": {215.9, 279.4},
	"legal":  {215.9, 355.6},
}

// 命令名到元素种类的映射。
var commandKinds = map[string]string{
	"none":                       "None",
	"text":                       "Text",
	"rich_text":                  "RichText",
	"image":                      "Image",
	"svg":                        "SVG",
	"rect":                       "Rectangle",
	"circle":                     "Circle",
	"line":                       "Line",
	"vgap":                       "VGap",
	"halign":                     "HAlign",
	"padding":                    "Padding",
	"column":                     "Column",
	"row":                        "Row",
	"stack":                      "Stack",
	"page":                       "Page",
	"force_break":                "ForceBreak",
	"break_whole":                "BreakWhole",
	"min_first_height":           "MinFirstHeight",
	"shrink_to_fit":              "ShrinkToFit",
	"expand_to_preferred_height": "ExpandToPreferredHeight",
	"titled":                     "Titled",
	"repeat_after_break":         "RepeatAfterBreak",
	"changing_title":             "ChangingTitle",
	"pin_below":                  "PinBelow",
}

// Compile 把解析出的 AST 编译成声明式文档。编译产物与 JSON 前端解码的
// 结果同构，两个入口共享同一个构建层。
func Compile(ast *Document) (*doc.Document, error) {
	out := &doc.Document{}
	for _, section := range ast.Sections {
		switch {
		case section.Meta != nil:
			if err := compileMeta(section.Meta.Block, out); err != nil {
				return nil, err
			}
		case section.Entry != nil:
			entry, err := compileEntry(section.Entry)
			if err != nil {
				return nil, err
			}
			out.Entries = append(out.Entries, *entry)
		}
	}
	if len(out.Entries) == 0 {
		return nil, fmt.Errorf("文档没有 entry 段")
	}
	return out, nil
}

func compileMeta(block *Block, out *doc.Document) error {
	for _, stmt := range block.Statements {
		a := stmt.Assignment
		if a == nil {
			return fmt.Errorf("meta 段只接受赋值，得到 %v", stmt)
		}
		switch a.Key {
		case "title", "author", "subject", "creator", "lang":
			s, err := stringValue(a.Value)
			if err != nil {
				return fmt.Errorf("meta.%s: %w", a.Key, err)
			}
			switch a.Key {
			case "title":
				out.Title = s
			case "author":
				out.Author = s
			case "subject":
				out.Subject = s
			case "creator":
				out.Creator = s
			case "lang":
				out.Lang = s
			}
		case "keywords":
			if a.Value.Array == nil {
				return fmt.Errorf("meta.keywords 需要数组")
			}
			for _, v := range a.Value.Array.Values {
				s, err := stringValue(v)
				if err != nil {
					return fmt.Errorf("meta.keywords: %w", err)
				}
				out.Keywords = append(out.Keywords, s)
			}
		default:
			return fmt.Errorf("未知的 meta 字段 %q", a.Key)
		}
	}
	return nil
}

func compileEntry(section *EntrySection) (*doc.Entry, error) {
	entry := &doc.Entry{}
	if section.Size != "" {
		size, ok := paperSizes[strings.ToLower(section.Size)]
		if !ok {
			return nil, fmt.Errorf("未知的页面尺寸 %q", section.Size)
		}
		entry.Size = [2]doc.Length{doc.MM(size[0]), doc.MM(size[1])}
	}

	var root map[string]any
	for _, stmt := range section.Block.Statements {
		switch {
		case stmt.Assignment != nil:
			if err := compileEntryAssignment(stmt.Assignment, entry); err != nil {
				return nil, err
			}
		case stmt.Command != nil:
			if root != nil {
				return nil, fmt.Errorf("entry 段只能有一个根元素，多出的是 %q", stmt.Command.Name)
			}
			el, err := compileElement(stmt.Command)
			if err != nil {
				return nil, err
			}
			root = el
		default:
			return nil, fmt.Errorf("entry 段里出现了裸文本")
		}
	}
	if root == nil {
		return nil, fmt.Errorf("entry 段缺少根元素")
	}
	if entry.Size[0].Pt() <= 0 || entry.Size[1].Pt() <= 0 {
		return nil, fmt.Errorf("entry 段缺少页面尺寸")
	}

	node, err := doc.NodeOf(root)
	if err != nil {
		return nil, err
	}
	entry.Elem = node
	return entry, nil
}

func compileEntryAssignment(a *Assignment, entry *doc.Entry) error {
	switch a.Key {
	case "size":
		if a.Value.Array == nil || len(a.Value.Array.Values) != 2 {
			return fmt.Errorf("size 需要 [宽, 高]")
		}
		for i, v := range a.Value.Array.Values {
			l, err := lengthValue(v)
			if err != nil {
				return fmt.Errorf("size: %w", err)
			}
			entry.Size[i] = l
		}
	case "margin":
		m, err := marginValue(a.Value)
		if err != nil {
			return err
		}
		entry.Margin = m
	case "fonts":
		if a.Value.Object == nil {
			return fmt.Errorf("fonts 需要 { 名字: 来源 } 对象")
		}
		entry.Fonts = map[string]doc.FontSpec{}
		for _, fa := range a.Value.Object.Entries {
			spec, err := fontValue(fa.Value)
			if err != nil {
				return fmt.Errorf("fonts.%s: %w", fa.Key, err)
			}
			entry.Fonts[fa.Key] = spec
		}
	default:
		return fmt.Errorf("未知的 entry 字段 %q", a.Key)
	}
	return nil
}

func fontValue(v *Value) (doc.FontSpec, error) {
	if v.String != nil {
		return doc.FontSpec{Regular: string(*v.String)}, nil
	}
	if v.Object == nil {
		return doc.FontSpec{}, fmt.Errorf("需要路径或 { 变体: 路径 } 对象")
	}
	var spec doc.FontSpec
	for _, a := range v.Object.Entries {
		s, err := stringValue(a.Value)
		if err != nil {
			return doc.FontSpec{}, err
		}
		switch a.Key {
		case "regular":
			spec.Regular = s
		case "bold":
			spec.Bold = s
		case "italic":
			spec.Italic = s
		case "bold_italic":
			spec.BoldItalic = s
		default:
			return doc.FontSpec{}, fmt.Errorf("未知的字体变体 %q", a.Key)
		}
	}
	return spec, nil
}

func marginValue(v *Value) (*doc.MarginSpec, error) {
	switch {
	case v.Number != nil:
		l, err := lengthValue(v)
		if err != nil {
			return nil, err
		}
		return &doc.MarginSpec{Top: l, Right: l, Bottom: l, Left: l}, nil
	case v.Array != nil && len(v.Array.Values) == 4:
		// 顺时针：上右下左。
		var ls [4]doc.Length
		for i, av := range v.Array.Values {
			l, err := lengthValue(av)
			if err != nil {
				return nil, fmt.Errorf("margin: %w", err)
			}
			ls[i] = l
		}
		return &doc.MarginSpec{Top: ls[0], Right: ls[1], Bottom: ls[2], Left: ls[3]}, nil
	case v.Object != nil:
		m := &doc.MarginSpec{}
		for _, a := range v.Object.Entries {
			l, err := lengthValue(a.Value)
			if err != nil {
				return nil, fmt.Errorf("margin.%s: %w", a.Key, err)
			}
			switch a.Key {
			case "top":
				m.Top = l
			case "right":
				m.Right = l
			case "bottom":
				m.Bottom = l
			case "left":
				m.Left = l
			default:
				return nil, fmt.Errorf("未知的 margin 字段 %q", a.Key)
			}
		}
		return m, nil
	}
	return nil, fmt.Errorf("margin 需要数字、[上,右,下,左] 或对象")
}

func stringValue(v *Value) (string, error) {
	if v == nil || v.String == nil {
		return "", fmt.Errorf("需要字符串")
	}
	return string(*v.String), nil
}

func lengthValue(v *Value) (doc.Length, error) {
	if v == nil || v.Number == nil {
		return doc.Length{}, fmt.Errorf("需要长度")
	}
	return doc.ParseLength(*v.Number)
}

// compileElement 把元素命令编译成与 JSON 前端同构的 map。
func compileElement(cmd *Command) (map[string]any, error) {
	kind, ok := commandKinds[cmd.Name]
	if !ok {
		return nil, fmt.Errorf("%s: 未知的元素命令 %q", cmd.Pos, cmd.Name)
	}

	out := map[string]any{"type": kind}
	attrs, positional, err := splitArgs(cmd.Args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cmd.Pos, err)
	}
	for key, val := range attrs {
		out[key] = val
	}

	switch kind {
	case "Text":
		if len(positional) == 1 {
			out["text"] = positional[0]
		} else if text, ok := blockText(cmd.Block); ok {
			out["text"] = text
		} else if _, has := out["text"]; !has {
			return nil, fmt.Errorf("%s: text 需要内容", cmd.Pos)
		}

	case "RichText":
		spans := []any{}
		for _, stmt := range blockStatements(cmd.Block) {
			sub := stmt.Command
			if sub == nil || sub.Name != "span" {
				return nil, fmt.Errorf("%s: rich_text 块里只接受 span", cmd.Pos)
			}
			spanAttrs, spanPos, err := splitArgs(sub.Args)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", sub.Pos, err)
			}
			if len(spanPos) == 1 {
				spanAttrs["text"] = spanPos[0]
			} else if text, ok := blockText(sub.Block); ok {
				spanAttrs["text"] = text
			}
			spans = append(spans, spanAttrs)
		}
		out["spans"] = spans

	case "VGap":
		if len(positional) == 1 {
			out["height"] = positional[0]
		}

	case "Column", "Stack":
		children, err := compileChildren(cmd.Block)
		if err != nil {
			return nil, err
		}
		out["content"] = children

	case "Row":
		cells := []any{}
		for _, stmt := range blockStatements(cmd.Block) {
			sub := stmt.Command
			if sub == nil {
				return nil, fmt.Errorf("%s: row 块里只接受元素命令", cmd.Pos)
			}
			if sub.Name == "cell" {
				cellAttrs, _, err := splitArgs(sub.Args)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", sub.Pos, err)
				}
				inner, err := compileSingleChild(sub, "cell")
				if err != nil {
					return nil, err
				}
				flex := map[string]any{}
				for _, key := range []string{"mode", "width", "weight"} {
					if v, ok := cellAttrs[key]; ok {
						flex[key] = v
					}
				}
				cells = append(cells, map[string]any{"element": inner, "flex": flex})
			} else {
				inner, err := compileElement(sub)
				if err != nil {
					return nil, err
				}
				cells = append(cells, map[string]any{"element": inner})
			}
		}
		out["content"] = cells

	case "HAlign", "Padding", "BreakWhole", "MinFirstHeight",
		"ShrinkToFit", "ExpandToPreferredHeight":
		inner, err := compileSingleChild(cmd, cmd.Name)
		if err != nil {
			return nil, err
		}
		out["element"] = inner

	case "Titled", "RepeatAfterBreak":
		if err := compileSlots(cmd, out, map[string]string{
			"title":   "title",
			"content": "content",
		}); err != nil {
			return nil, err
		}

	case "ChangingTitle":
		if err := compileSlots(cmd, out, map[string]string{
			"first_title":     "first_title",
			"remaining_title": "remaining_title",
			"content":         "content",
		}); err != nil {
			return nil, err
		}

	case "PinBelow":
		if err := compileSlots(cmd, out, map[string]string{
			"content": "content",
			"pinned":  "pinned",
		}); err != nil {
			return nil, err
		}

	case "Page":
		decorations := []any{}
		for _, stmt := range blockStatements(cmd.Block) {
			sub := stmt.Command
			if sub == nil {
				return nil, fmt.Errorf("%s: page 块里只接受命令", cmd.Pos)
			}
			switch sub.Name {
			case "main":
				inner, err := compileSingleChild(sub, "main")
				if err != nil {
					return nil, err
				}
				out["element"] = inner
			case "decoration":
				decoAttrs, _, err := splitArgs(sub.Args)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", sub.Pos, err)
				}
				inner, err := compileSingleChild(sub, "decoration")
				if err != nil {
					return nil, err
				}
				decoAttrs["element"] = inner
				decorations = append(decorations, decoAttrs)
			default:
				return nil, fmt.Errorf("%s: page 块里只接受 main 或 decoration，得到 %q", sub.Pos, sub.Name)
			}
		}
		if _, ok := out["element"]; !ok {
			return nil, fmt.Errorf("%s: page 缺少 main 块", cmd.Pos)
		}
		if len(decorations) > 0 {
			out["decorations"] = decorations
		}
	}
	return out, nil
}

func compileChildren(block *Block) ([]any, error) {
	children := []any{}
	for _, stmt := range blockStatements(block) {
		if stmt.Command == nil {
			return nil, fmt.Errorf("容器块里只接受元素命令")
		}
		child, err := compileElement(stmt.Command)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

func compileSingleChild(cmd *Command, owner string) (map[string]any, error) {
	stmts := blockStatements(cmd.Block)
	if len(stmts) != 1 || stmts[0].Command == nil {
		return nil, fmt.Errorf("%s: %s 需要恰好一个子元素", cmd.Pos, owner)
	}
	return compileElement(stmts[0].Command)
}

// compileSlots 解析形如 `title { … }` 的具名子块。
func compileSlots(cmd *Command, out map[string]any, slots map[string]string) error {
	for _, stmt := range blockStatements(cmd.Block) {
		sub := stmt.Command
		if sub == nil {
			return fmt.Errorf("%s: %s 块里只接受具名子块", cmd.Pos, cmd.Name)
		}
		field, ok := slots[sub.Name]
		if !ok {
			return fmt.Errorf("%s: %s 块里出现了未知子块 %q", sub.Pos, cmd.Name, sub.Name)
		}
		inner, err := compileSingleChild(sub, sub.Name)
		if err != nil {
			return err
		}
		out[field] = inner
	}
	for _, field := range slots {
		if _, ok := out[field]; !ok {
			return fmt.Errorf("%s: %s 缺少 %s 块", cmd.Pos, cmd.Name, field)
		}
	}
	return nil
}

func blockStatements(block *Block) []*Statement {
	if block == nil {
		return nil
	}
	return block.Statements
}

func blockText(block *Block) (string, bool) {
	stmts := blockStatements(block)
	if len(stmts) == 1 && stmts[0].Text != nil {
		return string(stmts[0].Text.Value), true
	}
	return "", false
}

// splitArgs 把命令参数流拆成 key=value 属性与位置参数。裸标识符视为
// 布尔开关。
func splitArgs(args []*Token) (map[string]any, []any, error) {
	attrs := map[string]any{}
	var positional []any

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg.Type == "Ident" && i+1 < len(args) && args[i+1].Raw == "=" {
			if i+2 >= len(args) {
				return nil, nil, fmt.Errorf("属性 %s 缺少值", arg.Value)
			}
			val, err := argValue(args[i+2])
			if err != nil {
				return nil, nil, fmt.Errorf("属性 %s: %w", arg.Value, err)
			}
			attrs[arg.Value] = val
			i += 2
			continue
		}
		if arg.Type == "Ident" {
			attrs[arg.Value] = true
			continue
		}
		val, err := argValue(arg)
		if err != nil {
			return nil, nil, err
		}
		positional = append(positional, val)
	}
	return attrs, positional, nil
}

// argValue 把单个词素变成 JSON 值。数字允许单位后缀，统一折算成 pt。
func argValue(tok *Token) (any, error) {
	switch tok.Type {
	case "String":
		return tok.Value, nil
	case "Color":
		return tok.Value, nil
	case "Number":
		return numberPt(tok.Value)
	case "Ident":
		return tok.Value, nil
	}
	return nil, fmt.Errorf("无法理解的参数 %q", tok.Raw)
}

func numberPt(s string) (float64, error) {
	unit := ""
	for _, suffix := range []string{"pt", "mm", "cm", "in"} {
		if strings.HasSuffix(s, suffix) {
			unit = suffix
			s = strings.TrimSuffix(s, suffix)
			break
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("无法解析数字 %q", s)
	}
	switch unit {
	case "mm":
		return v * layout.MmToPt, nil
	case "cm":
		return v * 10 * layout.MmToPt, nil
	case "in":
		return v * 25.4 * layout.MmToPt, nil
	default:
		return v, nil
	}
}
