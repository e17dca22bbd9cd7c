// Package markup defines the note dialect: how a line is classified and
// where inline spans start and end. Every other package asks this one.
//
// Line grammar, checked in this order:
//
//	line          = numbered-line / bulleted-line / divider-line / plain-line
//	indent        = *SP                        ; level = min(floor(count / 4), 3)
//	numbered-line = indent 1*DIGIT "." 1*WSP content
//	bulleted-line = indent "•" 1*WSP content
//	divider-line  = *WSP "---" *WSP
//	plain-line    = *CHAR
//
// Inline rules, applied in order and never across a newline:
//
//	bold   = "**" 1*CHAR "**"              ; shortest match
//	italic = "*" 1*CHAR "*"                ; neither "*" may touch another "*"
//	code   = "`" 1*CHAR "`"                ; shortest match
//
// Unbalanced delimiters are not an error; they stay literal text.
package markup
