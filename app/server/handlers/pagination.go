package handlers

import "strconv"

func (a *App) parsePagination(pageStr string, limitStr string) (int, int) {
	// 映射前：第几页，每页限制多少个
	// 映射后：页减一，限制不变
	var page, limit int

	if parsed, err := strconv.Atoi(pageStr); err != nil || parsed < 1 {
		page = 0
	} else {
		page = parsed - 1
	}

	if parsed, err := strconv.Atoi(limitStr); err != nil || parsed <= 0 {
		limit = 100
	} else {
		limit = parsed
	}

	return page, limit
}

func (a *App) calcMaxPage(count int64, limit int) int64 {
	pageMax := count / int64(limit)
	if (count % int64(limit)) != 0 {
		pageMax++
	}
	return pageMax
}
