package qa

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/adframe/layout"
)

// Candidate 是一张待打分的生成图。
type Candidate struct {
	Name string
	Data []byte
}

// Item 为批量打分中单张图片的结果；Err 非空时 Report 无意义。
type Item struct {
	Name   string `json:"name"`
	Report Report `json:"report"`
	Err    error  `json:"-"`
}

// Passed 判断该图片是否通过。失败的打分一律不通过。
func (it Item) Passed(passAt float64) bool {
	return it.Err == nil && Passes(it.Report.Score, passAt)
}

// ScoreAll 以有限并发对多张图片打分，结果顺序与输入一致。
// 单张失败记录在对应 Item 上，不影响其余图片；ctx 取消后尚未开始的图片记为 ctx.Err()。
func ScoreAll(ctx context.Context, candidates []Candidate, l layout.Layout, workers int, opts ...Option) ([]Item, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	items := make([]Item, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, c := range candidates {
		items[i].Name = c.Name
		if err := gctx.Err(); err != nil {
			items[i].Err = err
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				items[i].Err = err
				return nil
			}
			items[i].Report, items[i].Err = Score(c.Data, l, opts...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return items, err
	}
	return items, ctx.Err()
}
