// Run `golangci-lint cache clean` after modifying this file.

package gorules

import (
	"github.com/quasilyte/go-ruleguard/dsl"
)

func bareErrors(m dsl.Matcher) {
	m.Match(`errors.New($_)`).
		Where(!m.File().PkgPath.Matches(`ctonews/oops`) &&
			!m.File().PkgPath.Matches(`ctonews/crawler`)).
		Report(`use oops.New so the error carries a stack`)
	m.Match(`fmt.Errorf($*_)`).
		Where(!m.File().PkgPath.Matches(`ctonews/oops`)).
		Report(`use oops.Newf so the error carries a stack`)
}

func rodOutsideCrawler(m dsl.Matcher) {
	m.Match(`rod.New($*_)`).
		Where(!m.File().PkgPath.Matches(`ctonews/crawler`)).
		Report(`the browser engine is only driven from the crawler package`)
}
