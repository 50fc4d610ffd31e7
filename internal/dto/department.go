package dto

// ── 部门模块 DTO ──

// DepartmentResponse 部门概要
type DepartmentResponse struct {
	ID      string `json:"id"`
	RawID   string `json:"raw_id"`
	Name    string `json:"name"`
	SuperID string `json:"super_id,omitempty"`
	AdminID string `json:"admin_id,omitempty"`
}
