package morph

type lexeme struct {
	lemma string
	para  *paradigm
}

// lexicon lists words whose declension class is known. Weekday names come
// first so their forms take priority over any coincidental city form.
var lexicon = []lexeme{
	{"понедельник", mascHard},
	{"вторник", mascHard},
	{"среда", femA},
	{"четверг", mascHard},
	{"пятница", femA},
	{"суббота", femA},
	{"воскресенье", neutE},

	{"погода", femA},
	{"прогноз", mascHard},
	{"город", mascHard},
	{"неделя", femJa},

	{"москва", femA},
	{"петербург", mascHard},
	{"новосибирск", mascHard},
	{"екатеринбург", mascHard},
	{"казань", femSoft},
	{"нижний", adjMascSoft},
	{"новгород", mascHard},
	{"самара", femA},
	{"омск", mascHard},
	{"челябинск", mascHard},
	{"ростов", mascHard},
	{"уфа", femA},
	{"красноярск", mascHard},
	{"воронеж", mascSibilant},
	{"пермь", femSoft},
	{"волгоград", mascHard},
	{"краснодар", mascHard},
	{"саратов", mascHard},
	{"тюмень", femSoft},
	{"тольятти", indeclinable},
	{"ижевск", mascHard},
	{"барнаул", mascHard},
	{"ульяновск", mascHard},
	{"иркутск", mascHard},
	{"хабаровск", mascHard},
	{"ярославль", mascSoft},
	{"владивосток", mascHard},
	{"махачкала", femA},
	{"томск", mascHard},
	{"оренбург", mascHard},
	{"кемерово", indeclinable},
	{"рязань", femSoft},
	{"астрахань", femSoft},
	{"пенза", femA},
	{"липецк", mascHard},
	{"тула", femA},
	{"киров", mascHard},
	{"калининград", mascHard},
	{"курск", mascHard},
	{"сочи", indeclinable},
	{"тверь", femSoft},
	{"севастополь", mascSoft},
	{"симферополь", mascSoft},
	{"мурманск", mascHard},
	{"архангельск", mascHard},
	{"смоленск", mascHard},
	{"калуга", femAVelar},
	{"вологда", femA},
	{"кострома", femA},
	{"якутск", mascHard},
	{"чита", femA},
	{"анапа", femA},
	{"ялта", femA},
	{"чебоксары", pluralY},
	{"химки", pluralI},
	{"подмосковье", neutE},
	{"крым", mascHard},

	{"минск", mascHard},
	{"киев", mascHard},
	{"париж", mascSibilant},
	{"лондон", mascHard},
	{"берлин", mascHard},
	{"рим", mascHard},
	{"мадрид", mascHard},
	{"прага", femAVelar},
	{"вена", femA},
	{"варшава", femA},
	{"рига", femAVelar},
	{"женева", femA},
	{"ницца", femA},
	{"гавана", femA},
	{"астана", femA},
	{"пекин", mascHard},
	{"дубай", mascJ},
	{"токио", indeclinable},
	{"тбилиси", indeclinable},
	{"баку", indeclinable},

	{"россия", femIja},
	{"украина", femA},
	{"аргентина", femA},
	{"канада", femA},
	{"америка", femAVelar},
	{"африка", femAVelar},
	{"европа", femA},
	{"германия", femIja},
	{"франция", femIja},
	{"италия", femIja},
	{"испания", femIja},
	{"турция", femIja},
	{"грузия", femIja},
}
