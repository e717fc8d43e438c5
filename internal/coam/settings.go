package coam

import "reflect"

// Settings 是单次转换使用的业务参数，构建后不再修改。
type Settings struct {
	SysFlag       string `yaml:"sys_flag" json:"sys_flag"`
	ObjectType    string `yaml:"object_type" json:"object_type"`
	RegionCode    string `yaml:"region_code" json:"region_code"`
	ProjectID     string `yaml:"project_id" json:"project_id"`
	EquipType     string `yaml:"equip_type" json:"equip_type"`
	ProductCode   string `yaml:"product_code" json:"product_code"`
	ObjectName    string `yaml:"object_name" json:"object_name"`
	SubjectType   string `yaml:"subject_type" json:"subject_type"`
	ManageCompany string `yaml:"manage_company" json:"manage_company"`
}

// DefaultSettings 返回内置默认值。
func DefaultSettings() Settings {
	return Settings{
		SysFlag:       "gas",
		ObjectType:    "OBJ_GX",
		RegionCode:    "110000",
		ProjectID:     "ssxm_hrrqeq",
		EquipType:     "jcsb174",
		ProductCode:   "0167",
		ObjectName:    "燃气管线",
		SubjectType:   "gas_pipeline",
		ManageCompany: "未知单位",
	}
}

// Merge 逐字段覆盖：override 中的非空字段替换 s 中的对应值，返回新值。
func (s Settings) Merge(override Settings) Settings {
	out := s
	dst := reflect.ValueOf(&out).Elem()
	src := reflect.ValueOf(override)
	for i := 0; i < src.NumField(); i++ {
		if v := src.Field(i).String(); v != "" {
			dst.Field(i).SetString(v)
		}
	}
	return out
}

// NewSettings 以默认值为底，依次叠加 overrides。
func NewSettings(overrides ...Settings) Settings {
	s := DefaultSettings()
	for _, o := range overrides {
		s = s.Merge(o)
	}
	return s
}

// SettingsFromMap 按 yaml 字段名把键值对转换为 Settings，未知键会被忽略。
func SettingsFromMap(m map[string]string) Settings {
	var s Settings
	v := reflect.ValueOf(&s).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if val, ok := m[t.Field(i).Tag.Get("yaml")]; ok {
			v.Field(i).SetString(val)
		}
	}
	return s
}

// Keys 返回所有参数名，顺序与字段定义一致。
func Keys() []string {
	t := reflect.TypeOf(Settings{})
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		keys = append(keys, t.Field(i).Tag.Get("yaml"))
	}
	return keys
}
