package bot

// Button labels double as message matchers, the way the original
// reply-keyboard flow works: pressing a button sends its label back.
const (
	BtnChooseCity = "Вибрати основне місто"
	BtnNews       = "Новини"
	BtnAllCountry = "Вся Україна"
	BtnSearchCity = "Пошук по містах"
)

func mainKeyboard() [][]string {
	return [][]string{{BtnChooseCity}, {BtnNews}}
}

func newsKeyboard(savedCity string) [][]string {
	var rows [][]string
	if savedCity != "" {
		rows = append(rows, []string{savedCity})
	}
	rows = append(rows, []string{BtnAllCountry}, []string{BtnSearchCity})
	return rows
}

func removeKeyboard() [][]string {
	return [][]string{}
}
