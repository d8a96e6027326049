package zodiac

// Sign describes one of the twelve fortune categories shown to the user.
type Sign struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Icon    string `json:"icon"`
	Dates   string `json:"dates"`
	Element string `json:"element"`
}

// Seed returns the fixed zodiac set in calendar order starting from Aries.
func Seed() []Sign {
	return []Sign{
		{ID: "aries", Name: "白羊座", Icon: "♈", Dates: "3.21-4.19", Element: "Fire"},
		{ID: "taurus", Name: "金牛座", Icon: "♉", Dates: "4.20-5.20", Element: "Earth"},
		{ID: "gemini", Name: "双子座", Icon: "♊", Dates: "5.21-6.21", Element: "Air"},
		{ID: "cancer", Name: "巨蟹座", Icon: "♋", Dates: "6.22-7.22", Element: "Water"},
		{ID: "leo", Name: "狮子座", Icon: "♌", Dates: "7.23-8.22", Element: "Fire"},
		{ID: "virgo", Name: "处女座", Icon: "♍", Dates: "8.23-9.22", Element: "Earth"},
		{ID: "libra", Name: "天秤座", Icon: "♎", Dates: "9.23-10.23", Element: "Air"},
		{ID: "scorpio", Name: "天蝎座", Icon: "♏", Dates: "10.24-11.22", Element: "Water"},
		{ID: "sagittarius", Name: "射手座", Icon: "♐", Dates: "11.23-12.21", Element: "Fire"},
		{ID: "capricorn", Name: "摩羯座", Icon: "♑", Dates: "12.22-1.19", Element: "Earth"},
		{ID: "aquarius", Name: "水瓶座", Icon: "♒", Dates: "1.20-2.18", Element: "Air"},
		{ID: "pisces", Name: "双鱼座", Icon: "♓", Dates: "2.19-3.20", Element: "Water"},
	}
}
