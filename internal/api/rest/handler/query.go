package handler

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/proposaldesk/docstore/internal/model"
)

// parseListQuery reads the shared listing parameters. Filter items arrive as
// repeated "filter=field:op:value" params and sort items as "sort=field" or
// "sort=field:desc". Malformed items are dropped, matching the silent
// whitelist policy of the query engine.
func parseListQuery(c echo.Context) model.ListQuery {
	q := model.ListQuery{
		OwnerUUID:     c.QueryParam("owner_user_uuid"),
		UploaderUUID:  c.QueryParam("uploader_uuid"),
		DirectoryUUID: c.QueryParam("directory_uuid"),
	}

	if raw := c.QueryParam("uuid"); raw != "" {
		for _, u := range strings.Split(raw, ",") {
			if u = strings.TrimSpace(u); u != "" {
				q.UUIDs = append(q.UUIDs, u)
			}
		}
	}

	switch v := model.Visibility(c.QueryParam("visible")); v {
	case model.VisibilityVisible, model.VisibilityInvisible, model.VisibilityAll:
		q.Visibility = v
	}

	q.IncludeDeleted = c.QueryParam("include_deleted") == "true"

	for _, raw := range c.QueryParams()["filter"] {
		parts := strings.SplitN(raw, ":", 3)
		if len(parts) != 3 {
			continue
		}
		q.Filters = append(q.Filters, model.FilterItem{
			Field: parts[0],
			Op:    model.FilterOp(parts[1]),
			Value: parts[2],
		})
	}

	for _, raw := range c.QueryParams()["sort"] {
		field, dir, _ := strings.Cut(raw, ":")
		if field == "" {
			continue
		}
		q.Sorts = append(q.Sorts, model.SortItem{Field: field, Desc: dir == "desc"})
	}

	q.Page.Number, _ = strconv.Atoi(c.QueryParam("page"))
	q.Page.Size, _ = strconv.Atoi(c.QueryParam("page_size"))
	q.Page = q.Page.Normalize()

	return q
}

// pagedResponse is the uniform listing envelope.
type pagedResponse struct {
	Data         any   `json:"data"`
	TotalRecords int64 `json:"total_records"`
	TotalPages   int64 `json:"total_pages"`
}

func paged(data any, total int64, pageSize int) pagedResponse {
	return pagedResponse{
		Data:         data,
		TotalRecords: total,
		TotalPages:   model.PageCount(total, pageSize),
	}
}
