package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders a Chunk back to Kaubo source text. It is not meant to
// reproduce the original formatting, only to produce text that reparses to
// an AST equal to c modulo formatting (an AST-printer round-trip
// property).
func Print(c *Chunk) string {
	var sb strings.Builder
	if c.Block != nil {
		printStmts(&sb, c.Block.Stmts)
	}
	return sb.String()
}

func printStmts(sb *strings.Builder, stmts []Stmt) {
	for _, s := range stmts {
		printStmt(sb, s)
	}
}

func printType(t *Type) string {
	if t == nil {
		return ""
	}
	if t.Func != nil {
		parts := make([]string, len(t.Func.Params))
		for i, p := range t.Func.Params {
			parts[i] = printType(p)
		}
		ret := ""
		if t.Func.Return != nil {
			ret = "->" + printType(t.Func.Return)
		}
		return "(" + strings.Join(parts, ",") + ")" + ret
	}
	if t.Elem != nil {
		return "[" + printType(t.Elem) + "]"
	}
	return t.Name
}

func printStmt(sb *strings.Builder, s Stmt) {
	switch n := s.(type) {
	case *ExprStmt:
		fmt.Fprintf(sb, "%s;", printExpr(n.Expr))
	case *EmptyStmt:
		sb.WriteString(";")
	case *BlockStmt:
		sb.WriteString("{")
		printStmts(sb, n.Block.Stmts)
		sb.WriteString("}")
	case *VarDecl:
		if n.Pub {
			sb.WriteString("pub ")
		}
		fmt.Fprintf(sb, "var %s", n.Name)
		if n.Type != nil {
			fmt.Fprintf(sb, ": %s", printType(n.Type))
		}
		if n.Init != nil {
			fmt.Fprintf(sb, " = %s", printExpr(n.Init))
		}
		sb.WriteString(";")
	case *IfStmt:
		fmt.Fprintf(sb, "if %s {", printExpr(n.Cond))
		printStmts(sb, n.Then.Stmts)
		sb.WriteString("}")
		for _, e := range n.Elifs {
			fmt.Fprintf(sb, " elif %s {", printExpr(e.Cond))
			printStmts(sb, e.Body.Stmts)
			sb.WriteString("}")
		}
		if n.Else != nil {
			sb.WriteString(" else {")
			printStmts(sb, n.Else.Stmts)
			sb.WriteString("}")
		}
	case *WhileStmt:
		fmt.Fprintf(sb, "while %s {", printExpr(n.Cond))
		printStmts(sb, n.Body.Stmts)
		sb.WriteString("}")
	case *ForInStmt:
		fmt.Fprintf(sb, "for var %s in %s {", n.Name, printExpr(n.Iterable))
		printStmts(sb, n.Body.Stmts)
		sb.WriteString("}")
	case *ReturnStmt:
		if n.Value != nil {
			fmt.Fprintf(sb, "return %s;", printExpr(n.Value))
		} else {
			sb.WriteString("return;")
		}
	case *PrintStmt:
		fmt.Fprintf(sb, "print %s;", printExpr(n.Value))
	case *BreakStmt:
		sb.WriteString("break;")
	case *ContinueStmt:
		sb.WriteString("continue;")
	case *ModuleDef:
		fmt.Fprintf(sb, "module %s {", n.Name)
		printStmts(sb, n.Body.Stmts)
		sb.WriteString("}")
	case *ImportStmt:
		switch n.Kind {
		case ImportPlain:
			fmt.Fprintf(sb, "import %s;", n.Path)
		case ImportAs:
			fmt.Fprintf(sb, "import %s as %s;", n.Path, n.Alias)
		case ImportFrom:
			fmt.Fprintf(sb, "from %s import %s;", n.Path, strings.Join(n.Names, ", "))
		}
	case *StructDef:
		fmt.Fprintf(sb, "struct %s {", n.Name)
		for i, f := range n.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(sb, "%s: %s", f.Name, printType(f.Type))
		}
		sb.WriteString("}")
	case *ImplBlock:
		fmt.Fprintf(sb, "impl %s {", n.Struct)
		for _, m := range n.Methods {
			fmt.Fprintf(sb, "%s = %s;", m.Name, printExpr(m.Lambda))
		}
		sb.WriteString("}")
	default:
		panic(fmt.Sprintf("ast.Print: unhandled statement %T", s))
	}
}

func printExpr(e Expr) string {
	switch n := e.(type) {
	case *IntLit:
		return strconv.FormatInt(n.Val, 10)
	case *FloatLit:
		s := strconv.FormatFloat(n.Val, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	case *StringLit:
		return strconv.Quote(n.Val)
	case *BoolLit:
		if n.Val {
			return "true"
		}
		return "false"
	case *NullLit:
		return "null"
	case *ListLit:
		parts := make([]string, len(n.Items))
		for i, it := range n.Items {
			parts[i] = printExpr(it)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *JSONLit:
		parts := make([]string, len(n.Entries))
		for i, ent := range n.Entries {
			parts[i] = fmt.Sprintf("%s: %s", strconv.Quote(ent.Key), printExpr(ent.Value))
		}
		return "json{" + strings.Join(parts, ", ") + "}"
	case *StructLit:
		parts := make([]string, len(n.Fields))
		for i, f := range n.Fields {
			parts[i] = fmt.Sprintf("%s: %s", f.Name, printExpr(f.Value))
		}
		return n.Name + " { " + strings.Join(parts, ", ") + " }"
	case *Ident:
		return n.Name
	case *BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", printExpr(n.Left), n.Op.String(), printExpr(n.Right))
	case *UnaryExpr:
		return fmt.Sprintf("(%s %s)", n.Op.String(), printExpr(n.Right))
	case *GroupingExpr:
		return "(" + printExpr(n.Expr) + ")"
	case *LambdaExpr:
		parts := make([]string, len(n.Params))
		for i, p := range n.Params {
			if p.Type != nil {
				parts[i] = fmt.Sprintf("%s: %s", p.Name, printType(p.Type))
			} else {
				parts[i] = p.Name
			}
		}
		ret := ""
		if n.Return != nil {
			ret = " -> " + printType(n.Return)
		}
		var body strings.Builder
		printStmts(&body, n.Body.Stmts)
		return fmt.Sprintf("|%s|%s { %s }", strings.Join(parts, ", "), ret, body.String())
	case *CallExpr:
		parts := make([]string, len(n.Args))
		for i, a := range n.Args {
			parts[i] = printExpr(a)
		}
		return fmt.Sprintf("%s(%s)", printExpr(n.Fn), strings.Join(parts, ", "))
	case *MemberExpr:
		return fmt.Sprintf("%s.%s", printExpr(n.Target), n.Name)
	case *IndexExpr:
		return fmt.Sprintf("%s[%s]", printExpr(n.Target), printExpr(n.Index))
	case *YieldExpr:
		if n.Value != nil {
			return "yield " + printExpr(n.Value)
		}
		return "yield"
	default:
		panic(fmt.Sprintf("ast.Print: unhandled expression %T", e))
	}
}
