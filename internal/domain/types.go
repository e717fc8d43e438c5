package domain

import "time"

// Object 对应推送文档中的监测对象。
type Object struct {
	ID          string `json:"id"`
	Code        string `json:"coamObjectCode"`
	Name        string `json:"coamObjectName"`
	Type        string `json:"coamObjectType"`
	Mechanism   string `json:"coamObjectMechanism"`
	Region      string `json:"coamObjectRegion"`
	Project     string `json:"coamObjectProject"`
	Position    string `json:"coamObjectPosition"`
	Status      string `json:"coamObjectStatus"`
	Usable      int    `json:"coamUsable"`
	SysFlag     string `json:"coamSysFlag"`
	SubjectType string `json:"coamSubjectType"`
	SubjectCode string `json:"coamSubjectCode"`
	Longitude   string `json:"coamLongitude"`
	Latitude    string `json:"coamLatitude"`
	Audit
}

// Point 对应监测点位。
type Point struct {
	ID         string `json:"id"`
	Code       string `json:"coamPointCode"`
	Name       string `json:"coamPointName"`
	Status     string `json:"coamPointStatus"`
	Alarm      string `json:"coamPointAlarm"`
	Threshold  string `json:"coamPointThreshold"`
	ObjectCode string `json:"coamPointObjectCode"`
	Region     string `json:"coamPointRegion"`
	Position   string `json:"coamPointPosition"`
	Usable     int    `json:"coamUsable"`
	Longitude  string `json:"coamLongitude"`
	Latitude   string `json:"coamLatitude"`
	Type       string `json:"coamPointType"`
	ExtraField string `json:"extraField"`
	Audit
}

// Equipment 对应监测设备。
type Equipment struct {
	ID            string `json:"id"`
	Name          string `json:"coamEquipName"`
	Code          string `json:"coamEquipCode"`
	DynamicCode   string `json:"coamDynamicEquipCode"`
	ParentID      string `json:"coamParentId"`
	Type          string `json:"coamEquipType"`
	ManageCompany string `json:"coamManageCompany"`
	Manufacturer  string `json:"coamManufacturer"`
	ModelNum      string `json:"coamModelnum"`
	SysFlag       string `json:"coamSysFlag"`
	Location      string `json:"coamLocation"`
	Status        string `json:"coamEquipStatus"`
	DataSource    string `json:"coamDataSource"`
	IsMaintain    string `json:"coamIsMaintain"`
	ExamineStatus string `json:"coamExamineStatus"`
	ProjectID     string `json:"coamProjectId"`
	ObjectCode    string `json:"coamMonitorObjectCode"`
	PointCode     string `json:"coamMonitorPointCode"`
	PointBindDate string `json:"coamPointBindDate"`
	CmUsable      int    `json:"coamCmUsable"`
	DeviceDetail  string `json:"deviceDetail"`
	ProductCode   string `json:"productCode"`
	IMEI          string `json:"imei"`
	IsSelfBuilt   string `json:"isSelfBuilt"`
	Audit
}

// Relation 绑定一台设备与一个点位。
type Relation struct {
	ID        string `json:"id"`
	EquipCode string `json:"coamEquipCode"`
	PointCode string `json:"coamPointCode"`
	Status    string `json:"coamStatus"`
	AddTime   string `json:"coamAddtime"`
	Usable    int    `json:"coamUsable"`
	Descript  string `json:"coamDescript"`
	Audit
}

// Audit 是四类记录共有的创建/更新信息，创建人取自手机号。
type Audit struct {
	CreateBy   int64  `json:"createBy"`
	CreateTime string `json:"createTime"`
	UpdateBy   int64  `json:"updateBy"`
	UpdateTime string `json:"updateTime"`
}

// NewAudit 以同一手机号和时间填充创建/更新字段。
func NewAudit(phone int64, at string) Audit {
	return Audit{CreateBy: phone, CreateTime: at, UpdateBy: phone, UpdateTime: at}
}

// Document 是最终推送文档，objectPushVoList 恒为一个元素。
type Document struct {
	Objects    []Object    `json:"objectPushVoList"`
	Points     []Point     `json:"pointPushVoList"`
	Equipments []Equipment `json:"equipmentPushVoList"`
	Relations  []Relation  `json:"equipRlPushVoList"`
}

// NodeRow 是批量写图的统一 DTO。
type NodeRow struct {
	Key        string         `json:"key"`
	Labels     []string       `json:"labels"`
	Properties map[string]any `json:"properties"`
	RunID      string         `json:"run_id"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// RelRow 代表一条关系需要的信息。
type RelRow struct {
	StartKey   string         `json:"start_key"`
	EndKey     string         `json:"end_key"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	RunID      string         `json:"run_id"`
}
