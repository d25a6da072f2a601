// Package repository implements PostgreSQL persistence via sqlx. Queries use
// positional parameters; sort columns go through an allow list so user input
// never reaches the ORDER BY clause directly.
package repository

import "strings"

// maxListRows bounds a single page. Exports request large pages to pull a
// whole roster in one query, so the ceiling sits well above the API default.
const maxListRows = 5000

// listClauses normalizes the paging and sorting inputs shared by every List
// query. Unknown sort keys fall back to the provided default column.
func listClauses(sortBy, sortOrder string, page, pageSize int, allowed map[string]string, defaultColumn string) (column, order string, normPage, normSize int) {
	column, ok := allowed[sortBy]
	if !ok {
		column = defaultColumn
	}
	order = strings.ToUpper(sortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	normPage = page
	if normPage < 1 {
		normPage = 1
	}
	normSize = pageSize
	if normSize <= 0 {
		normSize = 20
	}
	if normSize > maxListRows {
		normSize = maxListRows
	}
	return column, order, normPage, normSize
}
