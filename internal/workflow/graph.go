// Package workflow 实现对话的路由图
// 入口节点做意图分类，再按意图走向一个终止节点（待办、闲聊、新闻、人脉画像）
package workflow

import (
	"context"
	"fmt"
	"time"

	"pocket-assistant/internal/intent"
)

// State 在节点之间传递的状态
// 分类节点只写入 Input 和 Intent，其余字段原样保留
type State struct {
	Input  string
	UserID int64
	Intent intent.Label
	// Meta 调用方附带的其他字段
	Meta map[string]interface{}
	// Result 终止节点的输出，节点没有可回复的内容时保持为 nil
	Result *Result
}

// Result 一轮对话的输出
type Result struct {
	Answer   string     `json:"answer"`
	RemindAt *time.Time `json:"remind_at,omitempty"`
}

// Node 图中的节点
type Node func(ctx context.Context, state *State) error

// Router 根据状态给出条件边的键
type Router func(state *State) string

type conditionalEdge struct {
	route   Router
	targets map[string]string
}

// Graph 有向无环的节点图
type Graph struct {
	nodes map[string]Node
	edges map[string]conditionalEdge
	entry string
}

// NewGraph 创建空图
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]Node),
		edges: make(map[string]conditionalEdge),
	}
}

// AddNode 添加节点
func (g *Graph) AddNode(name string, node Node) {
	g.nodes[name] = node
}

// AddConditionalEdges 从 from 出发，按 route 的返回值在 targets 中选择下一个节点
func (g *Graph) AddConditionalEdges(from string, route Router, targets map[string]string) {
	g.edges[from] = conditionalEdge{route: route, targets: targets}
}

// SetEntryPoint 设置入口节点
func (g *Graph) SetEntryPoint(name string) {
	g.entry = name
}

// Invoke 从入口开始执行，直到没有出边的节点
func (g *Graph) Invoke(ctx context.Context, state *State) error {
	current := g.entry
	// 无环图的步数不会超过节点数
	for steps := 0; steps <= len(g.nodes); steps++ {
		node, ok := g.nodes[current]
		if !ok {
			return fmt.Errorf("workflow: unknown node %q", current)
		}
		if err := node(ctx, state); err != nil {
			return err
		}

		edge, ok := g.edges[current]
		if !ok {
			return nil
		}
		key := edge.route(state)
		next, ok := edge.targets[key]
		if !ok {
			return fmt.Errorf("workflow: node %q has no edge for %q", current, key)
		}
		current = next
	}
	return fmt.Errorf("workflow: exceeded %d steps, graph has a cycle", len(g.nodes))
}
