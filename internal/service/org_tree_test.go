package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"tmsftt/backend/internal/model"
)

func newTreeDept(rawID, name string) *model.Department {
	return &model.Department{
		DepartmentID:    uuid.New().String(),
		RawDepartmentID: rawID,
		Name:            name,
	}
}

// 构造 学校 → 学部A(22)、学院B(33)，A 下挂 基础部(2201)
func buildTestTree() *OrgTree {
	tree := NewOrgTree("10141")
	tree.Add(newTreeDept("10141", "大连理工大学"), "")
	tree.Add(newTreeDept("22", "创新创业学院"), "10141")
	tree.Add(newTreeDept("33", "软件学院"), "10141")
	tree.Add(newTreeDept("2201", "创新创业学院基础部"), "22")
	return tree
}

func TestOrgTreeDescendants(t *testing.T) {
	tree := buildTestTree()

	depts := tree.Descendants("22")
	if len(depts) != 2 {
		t.Fatalf("子树应包含 2 个节点, 实际 %d", len(depts))
	}
	if depts[0].RawDepartmentID != "22" || depts[1].RawDepartmentID != "2201" {
		t.Errorf("先序遍历顺序错误: %s, %s", depts[0].RawDepartmentID, depts[1].RawDepartmentID)
	}

	if got := tree.Descendants("10141"); len(got) != 4 {
		t.Errorf("整棵树应包含 4 个节点, 实际 %d", len(got))
	}

	if got := tree.Descendants("999"); got != nil {
		t.Errorf("未登记单位号应返回 nil, 实际 %v", got)
	}
}

func TestOrgTreeAddLateParent(t *testing.T) {
	tree := NewOrgTree("10141")
	tree.Add(newTreeDept("10141", "大连理工大学"), "")
	// 子节点先于父节点登记
	tree.Add(newTreeDept("2201", "创新创业学院基础部"), "22")
	tree.Add(newTreeDept("22", "创新创业学院"), "10141")

	depts := tree.Descendants("22")
	if len(depts) != 2 {
		t.Fatalf("父节点补挂后子树应包含 2 个节点, 实际 %d", len(depts))
	}
	if depts[1].RawDepartmentID != "2201" {
		t.Errorf("延迟挂接的子节点应出现在子树中, 实际 %s", depts[1].RawDepartmentID)
	}
}

func TestOrgTreeSetParent(t *testing.T) {
	tree := buildTestTree()
	tree.SetParent("2201", "33")

	if got := tree.Descendants("22"); len(got) != 1 {
		t.Errorf("改挂后旧父节点子树应只剩自身, 实际 %d 个节点", len(got))
	}
	depts := tree.Descendants("33")
	if len(depts) != 2 || depts[1].RawDepartmentID != "2201" {
		t.Errorf("改挂后新父节点子树应包含 2201, 实际 %v", depts)
	}
}

func TestOrgTreeAncestorChain(t *testing.T) {
	tree := buildTestTree()

	chain, err := tree.AncestorChain("2201")
	if err != nil {
		t.Fatalf("AncestorChain 应成功: %v", err)
	}
	want := []string{"2201", "22", "10141"}
	if len(chain) != len(want) {
		t.Fatalf("父链长度应为 %d, 实际 %d", len(want), len(chain))
	}
	for i := range want {
		if chain[i] != want[i] {
			t.Errorf("父链第 %d 项应为 %s, 实际 %s", i, want[i], chain[i])
		}
	}
}

func TestOrgTreeAncestorChainBroken(t *testing.T) {
	tree := NewOrgTree("10141")
	tree.Add(newTreeDept("2201", "创新创业学院基础部"), "22")

	if _, err := tree.AncestorChain("2201"); !errors.Is(err, ErrOrgTreeBroken) {
		t.Errorf("上级缺失应返回 ErrOrgTreeBroken, 实际 %v", err)
	}
}

func TestOrgTreeCycleDetection(t *testing.T) {
	tree := NewOrgTree("10141")
	tree.Add(newTreeDept("22", "学院甲"), "33")
	tree.Add(newTreeDept("33", "学院乙"), "22")

	if _, err := tree.AncestorChain("22"); !errors.Is(err, ErrOrgTreeCycle) {
		t.Errorf("环路引用应返回 ErrOrgTreeCycle, 实际 %v", err)
	}
	if _, err := tree.ResolveAdministrative("22"); !errors.Is(err, ErrOrgTreeCycle) {
		t.Errorf("环路引用下解析管理单位应返回 ErrOrgTreeCycle, 实际 %v", err)
	}
}

func TestOrgTreeResolveAdministrative(t *testing.T) {
	tree := buildTestTree()

	// 根节点与根的直接子节点以自身为管理单位
	admin, err := tree.ResolveAdministrative("10141")
	if err != nil || admin.RawDepartmentID != "10141" {
		t.Errorf("学校根节点的管理单位应为自身, 实际 %v, err=%v", admin, err)
	}
	admin, err = tree.ResolveAdministrative("22")
	if err != nil || admin.RawDepartmentID != "22" {
		t.Errorf("二级部门的管理单位应为自身, 实际 %v, err=%v", admin, err)
	}

	// 下级部门取最近满足条件的祖先
	admin, err = tree.ResolveAdministrative("2201")
	if err != nil || admin.RawDepartmentID != "22" {
		t.Errorf("下级部门的管理单位应为所属二级部门, 实际 %v, err=%v", admin, err)
	}

	// 改挂后备忘失效，按新父链重新解析
	tree.SetParent("2201", "33")
	admin, err = tree.ResolveAdministrative("2201")
	if err != nil || admin.RawDepartmentID != "33" {
		t.Errorf("改挂后管理单位应重新解析为 33, 实际 %v, err=%v", admin, err)
	}
}

func TestOrgTreeResolveAdministrativeMemoizesPath(t *testing.T) {
	tree := buildTestTree()
	tree.Add(newTreeDept("220101", "基础部教学组"), "2201")

	admin, err := tree.ResolveAdministrative("220101")
	if err != nil || admin.RawDepartmentID != "22" {
		t.Fatalf("三级部门的管理单位应为所属二级部门, 实际 %v, err=%v", admin, err)
	}

	// 上行路径上的每个节点都应已备忘，同链解析不再重复爬链
	for _, rawID := range []string{"220101", "2201"} {
		if got := tree.adminMemo[rawID]; got != "22" {
			t.Errorf("单位 %s 应已备忘管理单位 22, 实际 %q", rawID, got)
		}
	}

	// 备忘命中时新路径同样回填
	tree.Add(newTreeDept("22010101", "教学组一班"), "220101")
	if _, err := tree.ResolveAdministrative("22010101"); err != nil {
		t.Fatalf("解析管理单位失败: %v", err)
	}
	if got := tree.adminMemo["22010101"]; got != "22" {
		t.Errorf("命中备忘后新节点也应回填, 实际 %q", got)
	}
}
