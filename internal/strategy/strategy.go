package strategy

import (
	"errors"
	"sort"

	"strategy-tester/internal/market"
)

// Func 定义策略契约：输入价格序列，输出与之对齐的仓位信号。
// 实现必须是纯函数：不修改输入、无副作用、同一输入恒产生同一输出。
type Func func(prices market.Series) (Signal, error)

// Strategy 为带名称的策略，便于注册与结果归档。
type Strategy interface {
	Name() string
	Apply(prices market.Series) (Signal, error)
}

type funcStrategy struct {
	name string
	fn   Func
}

// New 将函数包装为命名策略。
func New(name string, fn Func) Strategy {
	return funcStrategy{name: name, fn: fn}
}

func (s funcStrategy) Name() string {
	return s.name
}

func (s funcStrategy) Apply(prices market.Series) (Signal, error) {
	if s.fn == nil {
		return Signal{}, errors.New("strategy: 策略函数未实现")
	}
	return s.fn(prices)
}

// Registry 持有命名策略集合，供按名查找与枚举。
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry 创建空的策略注册表。
func NewRegistry() *Registry {
	return &Registry{
		strategies: make(map[string]Strategy),
	}
}

// Register 按 Name() 注册策略，后注册者覆盖同名策略。
func (r *Registry) Register(s Strategy) {
	r.strategies[s.Name()] = s
}

// Get 按名称查找策略，第二个返回值表示是否存在。
func (r *Registry) Get(name string) (Strategy, bool) {
	s, ok := r.strategies[name]
	return s, ok
}

// List 返回全部已注册策略名称，按字典序排序。
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
