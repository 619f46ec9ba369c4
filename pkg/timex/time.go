package timex

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Layout JSON 序列化格式
const Layout = time.RFC3339

// Time wraps time.Time with RFC 3339 JSON encoding and zero-as-null
// Time 包装 time.Time，JSON 使用 RFC 3339，零值序列化为 null
type Time time.Time

// Now 当前时间
func Now() Time {
	return Time(time.Now())
}

// Of 转换 time.Time
func Of(t time.Time) Time {
	return Time(t)
}

// OfPtr 转换 *time.Time，nil 返回零值
func OfPtr(t *time.Time) Time {
	if t == nil {
		return Time{}
	}
	return Time(*t)
}

func (t Time) Time() time.Time {
	return time.Time(t)
}

func (t Time) IsZero() bool {
	return time.Time(t).IsZero()
}

func (t Time) Unix() int64 {
	return time.Time(t).Unix()
}

func (t Time) UnixMilli() int64 {
	return time.Time(t).UnixMilli()
}

func (t Time) UnixMicro() int64 {
	return time.Time(t).UnixMicro()
}

func (t Time) UnixNano() int64 {
	return time.Time(t).UnixNano()
}

func (t Time) String() string {
	return time.Time(t).Format(Layout)
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + time.Time(t).Format(Layout) + `"`), nil
}

func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*t = Time{}
		return nil
	}
	parsed, err := time.Parse(`"`+Layout+`"`, s)
	if err != nil {
		return err
	}
	*t = Time(parsed)
	return nil
}

// Value 实现 driver.Valuer
func (t Time) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return time.Time(t), nil
}

// Scan 实现 sql.Scanner
func (t *Time) Scan(v interface{}) error {
	switch value := v.(type) {
	case nil:
		*t = Time{}
	case time.Time:
		*t = Time(value)
	case string:
		return t.scanString(value)
	case []byte:
		return t.scanString(string(value))
	default:
		return fmt.Errorf("can not convert %v to timex.Time", v)
	}
	return nil
}

// 不同驱动以字符串返回时间时使用的格式
var scanLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t *Time) scanString(s string) error {
	if s == "" {
		*t = Time{}
		return nil
	}
	for _, layout := range scanLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = Time(parsed)
			return nil
		}
	}
	return fmt.Errorf("can not parse %q as timex.Time", s)
}
