// Copyright 2021 ecodeclub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package erank

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/ecodeclub/erank/internal/debounce"
	"github.com/ecodeclub/erank/internal/errs"
	"github.com/ecodeclub/erank/internal/event"
	"github.com/ecodeclub/erank/internal/logger"
	"github.com/ecodeclub/erank/internal/orderedset"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// DefaultReorderDelay 合并同一个 Ranking 连续的重排请求
const DefaultReorderDelay = 100 * time.Millisecond

var providerForwarded = []string{
	EventAddColumn, EventRemoveColumn,
	EventDirty, EventDirtyHeader, EventOrderChanged, EventDirtyValues,
}

var providerEvents = []string{
	EventAddColumn, EventRemoveColumn,
	EventAddRanking, EventRemoveRanking,
	EventDirty, EventDirtyHeader, EventDirtyValues,
	EventOrderChanged, EventSelectionChanged,
	EventJumpToNearest, EventAggregate, EventReorderFailed,
}

// Executor 执行重排任务。防抖到期的任务在计时器的 goroutine 上交给 Executor，
// Executor 负责把它转交给持有模型的 goroutine。
type Executor func(task func())

// ProviderOption configure Provider
type ProviderOption func(p *Provider)

// rankingState 每个 Ranking 的重排状态
type rankingState struct {
	debouncer *debounce.Debouncer
	sub       *event.Subscription
	// 同一个 Ranking 的重排串行执行
	mu sync.Mutex
}

// Provider 持有所有 Ranking，以及选择和折叠状态
type Provider struct {
	d           *event.Dispatcher
	storage     Storage
	columnTypes map[string]ColumnConstructor
	multiSelect bool
	delay       time.Duration
	exec        Executor
	ms          []Middleware
	handler     HandleFunc
	l           *logger.Logger
	refs        DescRefs

	mu       sync.RWMutex
	rankings []*Ranking
	states   map[*Ranking]*rankingState
	closed   bool

	// queued 防抖到期、等待调用方执行的重排
	qmu    sync.Mutex
	queued []*Ranking
	wake   chan struct{}

	selection *orderedset.Set[int]
	// aggregations 显式折叠的分组，expanded 显式展开的分组
	aggregations map[string]struct{}
	expanded     map[string]struct{}

	uid        int
	rankingUID int
}

func NewProvider(storage Storage, opts ...ProviderOption) *Provider {
	p := &Provider{
		storage:      storage,
		columnTypes:  DefaultColumnTypes(),
		multiSelect:  true,
		delay:        DefaultReorderDelay,
		l:            logger.New(),
		states:       make(map[*Ranking]*rankingState),
		selection:    orderedset.New[int](),
		aggregations: make(map[string]struct{}),
		expanded:     make(map[string]struct{}),
		wake:         make(chan struct{}, 1),
	}
	p.d = event.NewDispatcher(p, providerEvents...)
	p.refs = NewStorageDescRefs(storage)
	for _, o := range opts {
		o(p)
	}
	p.handler = chain(p.sort, p.ms)
	return p
}

// WithMultiSelection false 时同一时间最多选中一行
func WithMultiSelection(multi bool) ProviderOption {
	return func(p *Provider) {
		p.multiSelect = multi
	}
}

// WithColumnTypes 注册额外的列类型，同名时覆盖默认实现
func WithColumnTypes(types map[string]ColumnConstructor) ProviderOption {
	return func(p *Provider) {
		for k, v := range types {
			p.columnTypes[k] = v
		}
	}
}

// WithReorderDelay 0 表示同步重排。
// 大于 0 时到期的重排进入队列，由调用方通过 Drain 或 Flush 执行。
func WithReorderDelay(delay time.Duration) ProviderOption {
	return func(p *Provider) {
		p.delay = delay
	}
}

// WithExecutor 所有重排都交给 exec，Drain 和 Flush 不再有任务可执行
func WithExecutor(exec Executor) ProviderOption {
	return func(p *Provider) {
		p.exec = exec
	}
}

func WithMiddlewares(ms ...Middleware) ProviderOption {
	return func(p *Provider) {
		p.ms = ms
	}
}

func WithLogger(l *logger.Logger) ProviderOption {
	return func(p *Provider) {
		p.l = l
	}
}

// WithDescRefs 指定 dump 中描述符的引用方式
func WithDescRefs(refs DescRefs) ProviderOption {
	return func(p *Provider) {
		p.refs = refs
	}
}

func (p *Provider) Storage() Storage {
	return p.storage
}

func (p *Provider) On(typ string, l event.Listener) *event.Subscription {
	return p.d.On(typ, l)
}

func (p *Provider) Off(typ string) {
	p.d.Off(typ)
}

func (p *Provider) Dispatcher() *event.Dispatcher {
	return p.d
}

func (p *Provider) fire(types []string, args ...any) {
	p.d.Fire(types, args...)
}

func (p *Provider) nextID() string {
	id := "col" + strconv.Itoa(p.uid)
	p.uid++
	return id
}

func (p *Provider) nextRankingID() string {
	id := "rank" + strconv.Itoa(p.rankingUID)
	p.rankingUID++
	return id
}

// NewRanking 创建一个还没有加入 Provider 的空 Ranking
func (p *Provider) NewRanking() *Ranking {
	return NewRanking(p.nextRankingID())
}

// fixDesc 为支撑列注入和 Provider 绑定的回调
func (p *Provider) fixDesc(desc *ColumnDesc) {
	switch desc.Type {
	case TypeRank:
		desc.RankAccessor = func(row DataRow, r *Ranking) int {
			if r == nil {
				return -1
			}
			return r.Rank(row.I)
		}
	case TypeSelection:
		desc.IsSelected = func(row DataRow) bool {
			return p.IsSelected(row.I)
		}
		desc.SetSelected = func(row DataRow, v bool) {
			if v {
				p.Select(row.I)
				return
			}
			p.Deselect(row.I)
		}
		desc.SetSelectedAll = func(indices []int, v bool) {
			if v {
				p.SelectAll(indices)
				return
			}
			p.DeselectAll(indices)
		}
	case TypeAggregate:
		desc.IsAggregated = p.IsAggregated
		desc.SetAggregated = p.SetAggregated
		desc.AggregateAll = p.AggregateAllOf
	}
}

// Create 按描述符创建列，未知类型返回 nil
func (p *Provider) Create(desc *ColumnDesc) Column {
	if desc == nil {
		return nil
	}
	ctor, ok := p.columnTypes[desc.Type]
	if !ok {
		return nil
	}
	p.fixDesc(desc)
	return ctor(p.nextID(), desc)
}

// Push 创建列并追加到 r 的末尾
func (p *Provider) Push(r *Ranking, desc *ColumnDesc) Column {
	col := p.Create(desc)
	if col == nil {
		return nil
	}
	return r.Push(col)
}

func (p *Provider) Insert(r *Ranking, index int, desc *ColumnDesc) Column {
	col := p.Create(desc)
	if col == nil {
		return nil
	}
	return r.Insert(col, index)
}

// Clone 通过 dump 再 restore 得到一个独立的副本
func (p *Provider) Clone(col Column) Column {
	return p.RestoreColumn(p.DumpColumn(col))
}

// Find 在所有 Ranking 中按 id 查找列
func (p *Provider) Find(id string) Column {
	return p.FindFunc(func(c Column) bool {
		return c.ID() == id
	})
}

func (p *Provider) FindFunc(filter func(c Column) bool) Column {
	for _, r := range p.Rankings() {
		for _, c := range r.FlatColumns() {
			if filter(c) {
				return c
			}
		}
	}
	return nil
}

// Rankings 返回副本
func (p *Provider) Rankings() []*Ranking {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.rankings)
}

func (p *Provider) GetLastRanking() *Ranking {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.rankings) == 0 {
		return nil
	}
	return p.rankings[len(p.rankings)-1]
}

// PushRanking 追加一个新的 Ranking。existing 不为 nil 时复制它的列和排序条件。
func (p *Provider) PushRanking(existing *Ranking) *Ranking {
	r := p.cloneRanking(existing)
	p.InsertRanking(r, -1)
	return r
}

func (p *Provider) cloneRanking(existing *Ranking) *Ranking {
	r := p.NewRanking()
	if existing == nil {
		return r
	}
	dump := existing.Dump(p.toDescRef)
	delete(dump, "label")
	r.Restore(dump, p.createHelper)
	for _, c := range r.Columns() {
		assignNewID(c, p.nextID)
	}
	return r
}

// TakeSnapshot 新建一个按 col 排序的 Ranking，
// 同时复制支撑列和第一个字符串列
func (p *Provider) TakeSnapshot(col Column) *Ranking {
	r := p.NewRanking()
	toClone := []Column{col}
	if ranking := col.Ranking(); ranking != nil {
		hasString := col.Type() == TypeString
		toClone = toClone[:0]
		for _, c := range ranking.Columns() {
			switch {
			case c == col:
				toClone = append(toClone, c)
			case !hasString && c.Type() == TypeString:
				hasString = true
				toClone = append(toClone, c)
			case IsSupportType(c.Type()):
				toClone = append(toClone, c)
			}
		}
	}
	for _, c := range toClone {
		clone := p.Clone(c)
		if clone == nil {
			continue
		}
		r.Push(clone)
		if c == col {
			r.SortBy(clone, false)
		}
	}
	p.InsertRanking(r, -1)
	return r
}

// InsertRanking index 越界或为负时追加到末尾
func (p *Provider) InsertRanking(r *Ranking, index int) {
	p.mu.Lock()
	if index < 0 || index > len(p.rankings) {
		index = len(p.rankings)
	}
	p.rankings = slices.Insert(p.rankings, index, r)
	state := &rankingState{}
	state.debouncer = debounce.New(p.delay, func() {
		p.deliver(r)
	})
	p.states[r] = state
	p.mu.Unlock()

	p.d.Forward(r.Dispatcher(), providerForwarded...)
	state.sub = r.On(EventDirtyOrder, func(*event.Event) {
		state.debouncer.Trigger()
	})
	p.fire([]string{EventAddRanking, EventDirtyHeader, EventDirtyValues, EventDirty}, r, index)
	p.run(r)
}

func (p *Provider) reorderTask(r *Ranking) func() {
	return func() {
		_ = p.Reorder(context.Background(), r)
	}
}

// run 在调用方的 goroutine 上重排 r，配置了 Executor 时交给它
func (p *Provider) run(r *Ranking) {
	if p.exec != nil {
		p.exec(p.reorderTask(r))
		return
	}
	_ = p.Reorder(context.Background(), r)
}

// deliver 处理防抖到期的重排，可能在计时器的 goroutine 上调用，
// 所以默认只入队，不碰任何模型状态
func (p *Provider) deliver(r *Ranking) {
	if p.exec != nil {
		p.exec(p.reorderTask(r))
		return
	}
	if p.delay <= 0 {
		// 同步模式下 Trigger 就在调用方的 goroutine 上
		_ = p.Reorder(context.Background(), r)
		return
	}
	p.qmu.Lock()
	if !slices.Contains(p.queued, r) {
		p.queued = append(p.queued, r)
	}
	p.qmu.Unlock()
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Wake 有防抖重排到期时收到通知，事件循环收到之后调用 Drain
func (p *Provider) Wake() <-chan struct{} {
	return p.wake
}

// Drain 在调用方的 goroutine 上执行所有已经到期的重排，返回执行的数量
func (p *Provider) Drain(ctx context.Context) int {
	p.qmu.Lock()
	queued := p.queued
	p.queued = nil
	p.qmu.Unlock()
	for _, r := range queued {
		_ = p.Reorder(ctx, r)
	}
	return len(queued)
}

// Flush 不再等待防抖，立即在调用方的 goroutine 上执行所有等待中的重排
func (p *Provider) Flush(ctx context.Context) int {
	p.mu.RLock()
	states := make([]*rankingState, 0, len(p.states))
	for _, s := range p.states {
		states = append(states, s)
	}
	p.mu.RUnlock()
	for _, s := range states {
		s.debouncer.Flush()
	}
	return p.Drain(ctx)
}

// RemoveRanking 返回 r 是否属于这个 Provider
func (p *Provider) RemoveRanking(r *Ranking) bool {
	p.mu.Lock()
	i := slices.Index(p.rankings, r)
	if i < 0 {
		p.mu.Unlock()
		return false
	}
	p.rankings = slices.Delete(p.rankings, i, i+1)
	state := p.states[r]
	delete(p.states, r)
	p.mu.Unlock()

	p.release(r, state)
	p.fire([]string{EventRemoveRanking, EventDirtyHeader, EventDirtyValues, EventDirty}, r, i)
	return true
}

// ClearRankings 移除所有 Ranking，事件参数为 (nil, -1)
func (p *Provider) ClearRankings() {
	p.mu.Lock()
	rankings := p.rankings
	states := p.states
	p.rankings = nil
	p.states = make(map[*Ranking]*rankingState)
	p.mu.Unlock()

	for _, r := range rankings {
		p.release(r, states[r])
	}
	p.fire([]string{EventRemoveRanking, EventDirtyHeader, EventDirtyValues, EventDirty}, nil, -1)
}

func (p *Provider) release(r *Ranking, state *rankingState) {
	p.d.Unforward(r.Dispatcher())
	if state != nil {
		state.sub.Cancel()
		state.debouncer.Stop()
	}
	p.cleanUpAggregations(r)
}

// EnsureOneRanking 没有 Ranking 时创建一个只有名次列的 Ranking
func (p *Provider) EnsureOneRanking() *Ranking {
	if r := p.GetLastRanking(); r != nil {
		return r
	}
	r := p.PushRanking(nil)
	p.Push(r, CreateRankDesc())
	return r
}

// DeriveDefault 名次列、可选的选择列以及数据源的所有列
func (p *Provider) DeriveDefault(addSupportType bool) *Ranking {
	r := p.NewRanking()
	var descs []*ColumnDesc
	if addSupportType {
		descs = append(descs, CreateAggregationDesc(), CreateRankDesc(), CreateSelectionDesc())
	}
	for _, desc := range p.storage.Columns() {
		if !IsSupportType(desc.Type) {
			descs = append(descs, desc)
		}
	}
	for _, desc := range descs {
		if col := p.Create(desc); col != nil {
			r.Push(col)
		}
	}
	p.InsertRanking(r, -1)
	return r
}

func (p *Provider) sort(ctx context.Context, sc *SortContext) *SortResult {
	groups, err := p.storage.Sort(ctx, sc.Ranking)
	return &SortResult{Groups: groups, Err: err}
}

func (p *Provider) state(r *Ranking) (*rankingState, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, false
	}
	s, ok := p.states[r]
	return s, ok
}

func (p *Provider) lookup(r *Ranking) (*rankingState, error) {
	state, ok := p.state(r)
	if ok {
		return state, nil
	}
	if p.isClosed() {
		return nil, errs.ErrProviderClosed
	}
	return nil, errs.ErrRankingNotFound
}

// Reorder 立即对 r 重新排序并安装新的分组
func (p *Provider) Reorder(ctx context.Context, r *Ranking) error {
	state, err := p.lookup(r)
	if err != nil {
		return err
	}
	state.mu.Lock()
	defer state.mu.Unlock()
	start := time.Now()
	res := p.handler(ctx, &SortContext{Reason: SortReasonReorder, Ranking: r})
	return p.install(r, res, start)
}

func (p *Provider) install(r *Ranking, res *SortResult, start time.Time) error {
	if res.Err != nil {
		p.l.Warningf("ranking %s 重排失败: %v", r.ID(), res.Err)
		p.fire([]string{EventReorderFailed}, r, res.Err)
		return res.Err
	}
	// 排序期间被移除的 Ranking 不再更新
	if _, ok := p.state(r); !ok {
		return nil
	}
	unifyParents(res.Groups)
	r.SetGroups(res.Groups)
	p.l.Debugf("ranking %s 重排完成，%d 个分组，耗时 %s", r.ID(), len(res.Groups), time.Since(start))
	return nil
}

// ReorderAll 并发地排序所有 Ranking，再在调用方的 goroutine 上依次安装结果。
// 返回合并后的错误。
func (p *Provider) ReorderAll(ctx context.Context) error {
	rankings := p.Rankings()
	states := make([]*rankingState, len(rankings))
	errList := make([]error, len(rankings))
	for idx, r := range rankings {
		states[idx], errList[idx] = p.lookup(r)
	}
	start := time.Now()
	results := make([]*SortResult, len(rankings))
	var eg errgroup.Group
	for idx, r := range rankings {
		if errList[idx] != nil {
			continue
		}
		idx, r := idx, r
		eg.Go(func() error {
			states[idx].mu.Lock()
			defer states[idx].mu.Unlock()
			results[idx] = p.handler(ctx, &SortContext{Reason: SortReasonReorder, Ranking: r})
			return nil
		})
	}
	_ = eg.Wait()
	for idx, r := range rankings {
		if errList[idx] != nil {
			continue
		}
		states[idx].mu.Lock()
		errList[idx] = p.install(r, results[idx], start)
		states[idx].mu.Unlock()
	}
	return multierr.Combine(errList...)
}

func (p *Provider) isClosed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.closed
}

// Pending 是否还有没有执行的防抖重排
func (p *Provider) Pending() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, s := range p.states {
		if s.debouncer.Pending() {
			return true
		}
	}
	p.qmu.Lock()
	defer p.qmu.Unlock()
	return len(p.queued) > 0
}

// Close 停止所有等待中的重排，之后的 Reorder 返回 ErrProviderClosed
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	for _, s := range p.states {
		s.debouncer.Stop()
	}
	p.qmu.Lock()
	p.queued = nil
	p.qmu.Unlock()
	return nil
}
