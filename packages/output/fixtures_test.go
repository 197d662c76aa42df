package output

import (
	"github.com/abdul-hamid-achik/hitdoc/packages/capture"
	"github.com/abdul-hamid-achik/hitdoc/packages/document"
	"github.com/abdul-hamid-achik/hitdoc/packages/schema"
)

func strPtr(s string) *string {
	return &s
}

func fixtureViews() []*document.View {
	return []*document.View{
		{
			ID:           "b1",
			ResourceName: "Orders",
			Description:  "Creating an order",
			Method:       "POST",
			Path:         "/orders",
			Parameters: []schema.Parameter{
				{Name: "name", Description: "Name of the order", Required: true, Scope: "order"},
				{Name: "size", Description: "Size of the order", Scope: "order"},
			},
			Transcripts: []capture.Transcript{{
				Method:             "POST",
				Route:              "/orders",
				RequestBody:        strPtr("{\n  \"order\": {\n    \"name\": \"Old Name\"\n  }\n}"),
				RequestHeaders:     "Content-Type: application/json\nHost: example.org\nCookie: ",
				ResponseStatus:     201,
				ResponseStatusText: "Created",
				ResponseBody:       strPtr("{\n  \"id\": 1\n}"),
				ResponseHeaders:    "Content-Type: application/json; charset=utf-8\nContent-Length: 8",
			}},
			Document: document.FlagOn(),
		},
		{
			ID:           "a1",
			ResourceName: "Orders",
			Description:  "Getting an order",
			Method:       "GET",
			Path:         "/orders/:id",
			Explanation:  "Returns <one> order",
			Parameters: []schema.Parameter{
				{Name: "id", Description: "Order id"},
				{Name: "include", Description: "Related records"},
			},
			Transcripts: []capture.Transcript{{
				Method:                 "GET",
				Route:                  "/orders/1?include=items",
				RequestHeaders:         "Host: example.org\nCookie: ",
				RequestQueryParameters: "include: items",
				ResponseStatus:         200,
				ResponseStatusText:     "OK",
				ResponseBody:           strPtr("{\n  \"id\": 1\n}"),
				ResponseHeaders:        "Content-Type: application/json",
			}},
			Document: document.FlagTags("public"),
		},
		{
			ID:           "c1",
			ResourceName: "Users",
			Description:  "Deleting a user",
			Method:       "DELETE",
			Path:         "/users/:id",
			Transcripts: []capture.Transcript{{
				Method:             "DELETE",
				Route:              "/users/9",
				RequestHeaders:     "Host: example.org\nCookie: ",
				ResponseStatus:     500,
				ResponseStatusText: "Internal Server Error",
			}},
			Document: document.FlagOn(),
		},
		{
			ID:           "d1",
			ResourceName: "Users",
			Description:  "Not written yet",
			Document:     document.FlagOn(),
			Pending:      true,
		},
	}
}

func fixtureIndex() *Index {
	return NewIndex("Orders API", "1.0.0", fixtureViews(), document.DefaultFilters())
}
