package listmodel

// Role 视图层按行读取时使用的字段标识
type Role int

const (
	RoleContact    Role = 0 // 条目本身
	RoleUsername   Role = 0x100
	RoleSipAddress Role = 0x101
	RoleAvatar     Role = 0x102
	RolePresence   Role = 0x103
)

var roleNames = map[Role]string{
	RoleContact:    "$contact",
	RoleUsername:   "username",
	RoleSipAddress: "sipAddress",
	RoleAvatar:     "avatar",
	RolePresence:   "presenceStatus",
}

// ModelIndex 行列定位；零值表示根（无父节点）
type ModelIndex struct {
	Row    int
	Column int
	Valid  bool
}

// RootIndex 扁平列表的父节点
func RootIndex() ModelIndex { return ModelIndex{} }

// Index 指向第 row 行，不检查范围
func Index(row int) ModelIndex {
	return ModelIndex{Row: row, Valid: true}
}
