// Package dsl declares documented API examples and runs them as Go subtests.
//
// A Suite holds resource groups. Groups nest: Get, Post, Put and Delete create
// a child group bound to a method and path template, Context creates a plain
// child group. Parameters declared on a group are visible to every nested
// group; a nested group that changes its parameters first takes its own copy,
// so ancestors are never modified.
//
//	suite := dsl.NewSuite(cfg)
//	suite.Resource("Orders", func(g *dsl.Group) {
//		g.Post("/orders", func(g *dsl.Group) {
//			g.Parameter("name", "Name of the order")
//			g.Let("name", func(e *dsl.Example) any { return "Old Name" })
//			g.ExampleRequest("Creating an order", nil, func(e *dsl.Example) {
//				assert.Equal(e.T(), 201, e.Status())
//			})
//		})
//	})
//	suite.Run(t)
//
// Every executed example is turned into a document.View; Sections groups the
// documented ones by resource.
package dsl
