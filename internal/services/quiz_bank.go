package services

// AnswerStorageKey is the fixed key the answer set is stored under, scoped per client session.
const AnswerStorageKey = "golf-mbti-v1"

func q(id int, axis Axis, ko, en string) Question {
	return Question{ID: id, Axis: axis, PromptI18n: map[string]string{"ko": ko, "en": en}}
}

func rq(id int, axis Axis, ko, en string) Question {
	out := q(id, axis, ko, en)
	out.Reverse = true
	return out
}

var questionBank = []Question{
	q(1, AxisEI, "라운드 시작 전, 처음 보는 동반자와도 금방 친해져 농담을 주고받는다 🤝",
		"Before the round, I quickly warm up to partners I've never met and start trading jokes 🤝"),
	q(2, AxisJP, "전날 미리 티업 시간표, 이동 동선, 캐디피까지 꼼꼼히 체크한다 📋",
		"The day before, I check tee times, the route and even the caddie fee 📋"),
	q(3, AxisTF, "동반자의 OB에 진심으로 안타까워하고 위로한다 😢",
		"When a partner hits OB I genuinely feel for them and console them 😢"),
	q(4, AxisSN, "그린을 읽을 때, 감(느낌)으로 라인을 결정하는 편이다 ✨",
		"When reading a green, I pick the line by feel ✨"),
	q(5, AxisTF, "상대가 벙커에서 모래에 채를 댄 걸 봤다면, 규정을 들어 조용히 지적한다 📏",
		"If I see someone ground their club in a bunker, I quietly cite the rule 📏"),
	q(6, AxisEI, "골프장에 오면 기분이 좋아서 스태프, 캐디와 자연스레 인사를 건넨다 👋",
		"At the course I'm in a good mood and greet staff and caddies naturally 👋"),
	q(7, AxisJP, "비 예보가 있으면 레인기어, 여벌 장갑, 타월까지 완벽 준비한다 ☔️",
		"If rain is forecast I pack rain gear, spare gloves and towels ☔️"),
	q(8, AxisSN, "샷 전에 루틴, 템포, 체크리스트를 다시한번 점검한다 📝",
		"Before a shot I run through my routine, tempo and checklist again 📝"),
	q(9, AxisTF, "일파만파는 없다. 스코어카드는 정확해야 한다 🧮",
		"No mulligans on the first hole. The scorecard must be exact 🧮"),
	q(10, AxisEI, "라운드 중간중간 동반자들과 야부리와 수다로 에너지를 얻는다 💬",
		"I recharge during the round by chatting and joking with my partners 💬"),
	q(11, AxisSN, "새 장비를 고를 때 스펙보다 ‘필드에서 느낌’이 더 중요하다 🪄",
		"When choosing new gear, how it feels on the course matters more than specs 🪄"),
	q(12, AxisJP, "티샷 순서, 벌타 처리 등 진행 규칙을 야박하게 지키는 걸 선호한다 ⛳️",
		"I prefer strictly following tee order, penalty handling and other play rules ⛳️"),
	q(13, AxisTF, "동반자가 버디 퍼팅을 성공하면 축하하고 기쁨을 공유한다 (진짜로??)🎉",
		"When a partner sinks a birdie putt I celebrate with them (really??) 🎉"),
	q(14, AxisEI, "연습장에서도 모르는 사람과 스윙 이야기를 나누며 대화한 경험이 있다 🗣️",
		"Even at the range I've talked swings with strangers 🗣️"),
	rq(15, AxisSN, "거리 측정은 숫자보다 지형/바람/체감 난도를 더 중시한다 🌬️",
		"For distances I trust terrain, wind and feel more than numbers 🌬️"),
	q(16, AxisJP, "캐디의 플레이 진행 요청에 최대한 민첩하게 빠른 진행을 유도한다 ⏱️",
		"When the caddie asks us to speed up, I get the group moving right away ⏱️"),
	q(17, AxisTF, "동반자가 골프 룰을 몰라 실수하면 친절히 알려주고 상황을 정리한다 🫱🫲",
		"When a partner breaks a rule unknowingly, I kindly explain and sort it out 🫱🫲"),
	q(18, AxisEI, "짧은 파4, 동반자가 원온하겠다며 티샷했지만 뱀샷 50미터 나간 상황, 큰 소리로 웃으며 분위기를 띄운다. 😏",
		"On a short par 4 a partner goes for the green and tops it 50 metres; I laugh out loud and lift the mood 😏"),
	q(19, AxisSN, "샷 전 체크 포인트(그립/얼라인/볼 위치 등)를 체계적으로 점검한다 ✅",
		"Before a shot I systematically check grip, alignment and ball position ✅"),
	q(20, AxisJP, "어이없는 미스샷으로 스코어가 망가져도 자책하지 않고 다음 홀의 전략을 준비한다 🧭",
		"Even when a silly miss wrecks my score, I don't dwell and plan the next hole 🧭"),
	q(21, AxisTF, "컨디션 난조로 동반자의 표정이 좋지 않으면 가급적 유쾌함을 유지하려고 유도한다 🚫",
		"If a partner looks down because they're off form, I try to keep things cheerful 🚫"),
	q(22, AxisSN, "핀 위치를 과감히 공략하는 모험을 즐긴다(벙커따윈 두렵지 않다) 🎯",
		"I enjoy attacking the pin boldly (bunkers don't scare me) 🎯"),
	q(23, AxisEI, "라운드 후 뒤풀이로 사람들과 어울리며 피드백을 나눈다 🍻",
		"After the round I hang out with everyone and swap feedback 🍻"),
	q(24, AxisJP, "캐디가 쪼아도 연습 루틴처럼 일정한 템포와 순서를 유지한다 🔁",
		"Even when the caddie rushes me, I keep my tempo and routine 🔁"),
	rq(25, AxisTF, "동반자의 구찌에 내 샷이 미스나도 이해하고 넘어간다. 💚",
		"If a partner's trash talk makes me miss, I understand and let it go 💚"),
}

// QuestionBank returns a copy of the fixed question list in display order.
func QuestionBank() []Question {
	out := make([]Question, len(questionBank))
	copy(out, questionBank)
	return out
}

var resultMeta = map[string]localizedMeta{
	"ESTJ": {
		"ko": {"싱글 도전자(규칙파)", "실력은 아직이지만 욕심과 추진력", "진행과 규칙 러버. 가끔은 과감함도!"},
		"en": {"Single-digit Challenger (Rule Keeper)", "Skill still growing, drive and ambition already there", "Loves pace of play and rules. Be bold sometimes!"},
	},
	"ENTJ": {
		"ko": {"골프 군기반장", "공정·정의·승부욕:오늘은 1등하자", "기획→회고 풀스택 리더."},
		"en": {"Golf Drill Sergeant", "Fairness, justice, competitiveness: first place today", "Full-stack leader from planning to review."},
	},
	"ESFJ": {
		"ko": {"팀 무드메이커", "밝은 에너지 기복 심한 인싸", "동반자 케어 1티어."},
		"en": {"Team Mood Maker", "Bright energy, ups and downs, life of the party", "Top tier at caring for partners."},
	},
	"ENFJ": {
		"ko": {"멘탈 코치", "격려와 조언 리더형 고수", "분위기+실력 투트랙."},
		"en": {"Mental Coach", "A leader who encourages and advises", "Mood and skill on two tracks."},
	},
	"ISTJ": {
		"ko": {"정밀 측정기", "루틴/재현성 집착", "성실함=실력."},
		"en": {"Precision Gauge", "Obsessed with routine and repeatability", "Diligence equals skill."},
	},
	"INTJ": {
		"ko": {"전략가", "체스 두듯 매니지먼트", "리스크/리턴 계산!"},
		"en": {"Strategist", "Course management like a chess game", "Calculates risk and return!"},
	},
	"ISFJ": {
		"ko": {"따뜻한 버디요정", "팀 케어 성실형", "배려의 아이콘."},
		"en": {"Warm Birdie Fairy", "Diligent team carer", "An icon of consideration."},
	},
	"INFJ": {
		"ko": {"영감 스윙러", "감성과 통찰", "감각 플레이 강점."},
		"en": {"Inspired Swinger", "Sensibility and insight", "Strong at playing by feel."},
	},
	"ESTP": {
		"ko": {"죽어도 지른다", "공격수:스코어는 망해도 짜릿한 손맛에 기분이 좋다", "짜릿한 샷 메이커."},
		"en": {"Go For It Or Die", "Attacker: the score may crash but the thrill feels great", "Maker of thrilling shots."},
	},
	"ENTP": {
		"ko": {"아이디어 골퍼", "새 장비/새 스윙 실험", "발상의 전환."},
		"en": {"Idea Golfer", "Experiments with new gear and new swings", "Thinks outside the box."},
	},
	"ESFP": {
		"ko": {"즐거운 백돌이", "라운드는 파티", "분위기 제조기."},
		"en": {"Happy Hundred-Shooter", "Every round is a party", "Mood generator."},
	},
	"ENFP": {
		"ko": {"천재 백돌이", "감각 과다 루틴 실종", "영감 폭발형."},
		"en": {"Genius Hundred-Shooter", "Too much feel, routine gone missing", "Bursting with inspiration."},
	},
	"ISTP": {
		"ko": {"스윙 공돌이", "메커니즘 분석", "문제해결 빠름."},
		"en": {"Swing Engineer", "Analyses mechanics", "Solves problems fast."},
	},
	"INTP": {
		"ko": {"데이터 브레이커", "샷 트래킹 분석가", "이론 최강."},
		"en": {"Data Breaker", "Shot-tracking analyst", "Unbeatable in theory."},
	},
	"ISFP": {
		"ko": {"감성 페어웨이", "풍경/바람/기분:스코어 보다 골프장의 아름다운 풍경이 더 중요", "아티스트."},
		"en": {"Sentimental Fairway", "Scenery, wind, mood: the view matters more than the score", "An artist."},
	},
	"INFP": {
		"ko": {"꿈꾸는 퍼터", "어프로치에 스토리", "미학적 골퍼."},
		"en": {"Dreaming Putter", "Every approach tells a story", "An aesthetic golfer."},
	},
}

var fallbackMeta = localizedMeta{
	"ko": {Title: "골프 MBTI", Subtitle: "나의 라운드 성향은?"},
	"en": {Title: "Golf MBTI", Subtitle: "What is my round style?"},
}

// MetaFor returns display metadata for a type code. Unknown codes get the generic record and
// known=false.
func MetaFor(code, lang string) (meta ResultMeta, known bool) {
	m, known := resultMeta[code]
	if !known {
		m = fallbackMeta
	}
	if v, ok := m[lang]; ok {
		return v, known
	}
	return m["ko"], known
}

// TypeCodes lists every code with dedicated metadata.
func TypeCodes() []string {
	out := make([]string, 0, len(resultMeta))
	for _, e := range []string{"E", "I"} {
		for _, s := range []string{"S", "N"} {
			for _, t := range []string{"T", "F"} {
				for _, j := range []string{"J", "P"} {
					out = append(out, e+s+t+j)
				}
			}
		}
	}
	return out
}

// ShareTitle is the page and card share title for a type.
func ShareTitle(code string, meta ResultMeta, lang string) string {
	prefix := fallbackMeta["ko"].Title
	if v, ok := fallbackMeta[lang]; ok {
		prefix = v.Title
	}
	return prefix + " - " + code + " | " + meta.Title
}
