package service

import (
	"fmt"

	"tmsftt/backend/internal/model"
	"tmsftt/backend/pkg/apperrors"
)

// ── 组织树完整性错误 ──

var (
	ErrOrgTreeCycle  = apperrors.Integrity("组织架构存在环路引用")
	ErrOrgTreeBroken = apperrors.Integrity("组织架构上级单位缺失")
)

// OrgTree 同步任务使用的内存组织树。
// 以人事数据源的单位号为键登记部门节点，提供父子关系调整、
// 子树遍历与管理单位解析。生命周期限于单次同步批处理，
// 管理单位备忘随树一起丢弃，不存在跨批次的陈旧缓存。
type OrgTree struct {
	schoolRawID string
	nodes       map[string]*orgNode
	adminMemo   map[string]string // 单位号 → 管理单位单位号
}

type orgNode struct {
	dept        *model.Department
	parentRawID string
	children    []string
}

// NewOrgTree 创建以学校根节点单位号为锚点的空组织树
func NewOrgTree(schoolRawID string) *OrgTree {
	return &OrgTree{
		schoolRawID: schoolRawID,
		nodes:       make(map[string]*orgNode),
		adminMemo:   make(map[string]string),
	}
}

// Add 登记部门节点并挂接到父节点。
// parentRawID 为空表示根节点（学校本身）。重复登记同一单位号
// 只更新载荷与父子关系，不产生第二个节点。
func (t *OrgTree) Add(dept *model.Department, parentRawID string) {
	rawID := dept.RawDepartmentID
	if node, ok := t.nodes[rawID]; ok {
		node.dept = dept
		if node.parentRawID != parentRawID {
			t.relink(rawID, parentRawID)
		}
		return
	}
	t.nodes[rawID] = &orgNode{dept: dept, parentRawID: parentRawID}
	if parent, ok := t.nodes[parentRawID]; ok {
		parent.children = append(parent.children, rawID)
	}
	// 父节点尚未登记时延迟挂接：父节点 Add 时补链
	t.adoptOrphans(rawID)
}

// adoptOrphans 将先于父节点登记的子节点补挂到 rawID 下
func (t *OrgTree) adoptOrphans(rawID string) {
	node := t.nodes[rawID]
	for childRawID, child := range t.nodes {
		if childRawID == rawID || child.parentRawID != rawID {
			continue
		}
		if !containsString(node.children, childRawID) {
			node.children = append(node.children, childRawID)
		}
	}
}

// Get 按单位号查询部门
func (t *OrgTree) Get(rawID string) (*model.Department, bool) {
	node, ok := t.nodes[rawID]
	if !ok {
		return nil, false
	}
	return node.dept, true
}

// SetParent 调整节点的父子关系，并使管理单位备忘整体失效
// （父链变动可能影响整棵子树的解析结果）
func (t *OrgTree) SetParent(rawID, newParentRawID string) {
	node, ok := t.nodes[rawID]
	if !ok {
		return
	}
	if node.parentRawID == newParentRawID {
		return
	}
	t.relink(rawID, newParentRawID)
	t.adminMemo = make(map[string]string)
}

func (t *OrgTree) relink(rawID, newParentRawID string) {
	node := t.nodes[rawID]
	if oldParent, ok := t.nodes[node.parentRawID]; ok {
		oldParent.children = removeString(oldParent.children, rawID)
	}
	node.parentRawID = newParentRawID
	if newParent, ok := t.nodes[newParentRawID]; ok {
		if !containsString(newParent.children, rawID) {
			newParent.children = append(newParent.children, rawID)
		}
	}
}

// Descendants 先序遍历返回以 rawID 为根的子树（含自身）。
// 迭代实现并带访问守卫，环路数据下也能终止。
func (t *OrgTree) Descendants(rawID string) []*model.Department {
	if _, ok := t.nodes[rawID]; !ok {
		return nil
	}
	var result []*model.Department
	visited := make(map[string]bool)
	stack := []string{rawID}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[current] {
			continue
		}
		visited[current] = true
		node := t.nodes[current]
		result = append(result, node.dept)
		// 逆序入栈保持先序输出顺序
		for i := len(node.children) - 1; i >= 0; i-- {
			if !visited[node.children[i]] {
				stack = append(stack, node.children[i])
			}
		}
	}
	return result
}

// AncestorChain 返回从 rawID 到根节点（含两端）的单位号链。
// 上级缺失或存在环路时返回完整性错误。
func (t *OrgTree) AncestorChain(rawID string) ([]string, error) {
	var chain []string
	visited := make(map[string]bool)
	current := rawID
	for {
		node, ok := t.nodes[current]
		if !ok {
			return nil, fmt.Errorf("单位号 %s: %w", current, ErrOrgTreeBroken)
		}
		if visited[current] {
			return nil, fmt.Errorf("单位号 %s: %w", current, ErrOrgTreeCycle)
		}
		visited[current] = true
		chain = append(chain, current)
		if current == t.schoolRawID || node.parentRawID == "" {
			return chain, nil
		}
		current = node.parentRawID
	}
}

// ResolveAdministrative 解析节点的管理单位：根节点与根的直接子节点
// 以自身为管理单位，其余节点取最近的满足该条件的祖先。
// 上行路径上的每个节点都备忘，同一子树的后续解析不再重复爬链。
func (t *OrgTree) ResolveAdministrative(rawID string) (*model.Department, error) {
	visited := make(map[string]bool)
	path := make([]string, 0, 4)
	current := rawID
	for {
		if memo, ok := t.adminMemo[current]; ok {
			for _, id := range path {
				t.adminMemo[id] = memo
			}
			return t.nodes[memo].dept, nil
		}
		node, ok := t.nodes[current]
		if !ok {
			return nil, fmt.Errorf("单位号 %s: %w", current, ErrOrgTreeBroken)
		}
		if visited[current] {
			return nil, fmt.Errorf("单位号 %s: %w", current, ErrOrgTreeCycle)
		}
		visited[current] = true
		if current == t.schoolRawID || node.parentRawID == t.schoolRawID {
			t.adminMemo[current] = current
			for _, id := range path {
				t.adminMemo[id] = current
			}
			return node.dept, nil
		}
		path = append(path, current)
		current = node.parentRawID
	}
}

// RawIDs 返回全部已登记单位号
func (t *OrgTree) RawIDs() []string {
	ids := make([]string, 0, len(t.nodes))
	for rawID := range t.nodes {
		ids = append(ids, rawID)
	}
	return ids
}

func containsString(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}

func removeString(list []string, target string) []string {
	result := list[:0]
	for _, item := range list {
		if item != target {
			result = append(result, item)
		}
	}
	return result
}
