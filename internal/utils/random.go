package utils

import (
	"math/rand"
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/worker-roster/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "庆",
	"建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1

	var b strings.Builder
	b.WriteString(surname)
	for i := 0; i < nameLength; i++ {
		b.WriteString(commonNameCharacters[rand.Intn(len(commonNameCharacters))])
	}
	return b.String()
}

// RomanizeName 把中文姓名转成拼音形式，例如 "王小明" -> "Wang Xiaoming"
func RomanizeName(chineseName string) string {
	syllables := pinyin.LazyConvert(chineseName, nil)
	if len(syllables) == 0 {
		return ""
	}

	given := strings.Join(syllables[1:], "")
	if given == "" {
		return capitalize(syllables[0])
	}
	return capitalize(syllables[0]) + " " + capitalize(given)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// GenerateRandomWorkerName 生成随机的工人姓名（拼音形式）
func GenerateRandomWorkerName() string {
	return RomanizeName(GenerateRandomChineseName())
}

func GenerateRandomShiftStart() int {
	return domain.ShiftStarts[rand.Intn(len(domain.ShiftStarts))]
}
