// Package menu extracts one day's lunch menu from a parsed restaurant page.
//
// Pages come in four shapes, each read by a Strategy: a table of day/menu
// rows, a list with one item per day, a heading followed by sibling
// paragraphs, and a flat run of paragraphs. All strategies share the same
// day-boundary and stop-marker rules, and every outcome is a Result value:
// the menu lines, or not found, unknown type, or an upstream error.
//
// Extraction is pure and synchronous. The target Day is always passed in,
// so callers may run one extraction per restaurant concurrently.
//
//	tree, _ := menu.ParseString(page)
//	day := menu.Today(time.Now(), menu.Finnish, nil)
//	res := menu.Dispatch(descriptor, tree, day)
//	fmt.Println(res.Bullets())
package menu
