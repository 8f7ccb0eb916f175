package utils

// Server-side strings for API messages and status labels. Quiz content carries its own
// ko/en text next to the question bank.

const DefaultLocale = "ko"

var SupportedLocales = []string{"ko", "en"}

var translations = map[string]map[string]string{
	"ko": {
		"health.ok":                 "정상",
		"reservation.status.0":      "취소됨",
		"reservation.status.1":      "예약 확정",
		"reservation.status.2":      "체크인 완료",
		"reservation.status.3":      "체크아웃 완료",
		"payment.status.0":          "미결제",
		"payment.status.1":          "결제 완료",
		"payment.status.2":          "취소/환불",
		"status.unknown":            "알 수 없음",
		"err.missing_fields":        "필수 정보가 누락되었습니다.",
		"err.missing_params":        "필수 파라미터가 누락되었습니다: roomTypeId, checkInDate, checkOutDate",
		"err.checkin_past":          "체크인 날짜는 오늘 이후여야 합니다.",
		"err.checkout_before":       "체크아웃 날짜는 체크인 날짜 이후여야 합니다.",
		"err.bad_date":              "날짜 형식이 올바르지 않습니다. (YYYY-MM-DD)",
		"err.room_type_not_found":   "해당 객실 타입을 찾을 수 없습니다.",
		"err.hotel_not_found":       "호텔을 찾을 수 없습니다.",
		"err.invalid_hotel_id":      "잘못된 호텔 ID입니다.",
		"err.reservation_not_found": "예약을 찾을 수 없습니다. 예약 번호를 확인해주세요.",
		"err.code_required":         "예약 번호가 필요합니다.",
		"err.over_occupancy":        "최대 수용인원을 초과했습니다.",
		"err.no_availability":       "선택한 날짜에 예약 가능한 객실이 없습니다.",
		"err.code_exhausted":        "예약 코드 생성에 실패했습니다. 다시 시도해주세요.",
		"err.invalid_transition":    "현재 예약 상태에서는 처리할 수 없습니다.",
		"err.unavailable":           "데이터베이스를 사용할 수 없습니다.",
		"err.unavailable_detail":    "로컬 개발 모드 - 샘플 데이터가 표시됩니다",
		"err.internal":              "요청을 처리하지 못했습니다.",
		"err.unauthorized":          "인증이 필요합니다.",
		"err.invalid_credentials":   "아이디 또는 비밀번호가 올바르지 않습니다.",
		"err.invalid_pick":          "응답 값은 1에서 5 사이여야 합니다.",
		"err.unknown_question":      "존재하지 않는 문항입니다.",
		"err.invalid_body":          "요청 본문을 해석할 수 없습니다.",
	},
	"en": {
		"health.ok":                 "ok",
		"reservation.status.0":      "Cancelled",
		"reservation.status.1":      "Confirmed",
		"reservation.status.2":      "Checked in",
		"reservation.status.3":      "Checked out",
		"payment.status.0":          "Unpaid",
		"payment.status.1":          "Paid",
		"payment.status.2":          "Cancelled/Refunded",
		"status.unknown":            "Unknown",
		"err.missing_fields":        "Required fields are missing.",
		"err.missing_params":        "Missing required parameters: roomTypeId, checkInDate, checkOutDate",
		"err.checkin_past":          "Check-in date must be today or later.",
		"err.checkout_before":       "Check-out date must be after the check-in date.",
		"err.bad_date":              "Dates must be formatted as YYYY-MM-DD.",
		"err.room_type_not_found":   "Room type not found.",
		"err.hotel_not_found":       "Hotel not found.",
		"err.invalid_hotel_id":      "Invalid hotel ID.",
		"err.reservation_not_found": "Reservation not found. Please check the reservation code.",
		"err.code_required":         "Reservation code is required.",
		"err.over_occupancy":        "Maximum occupancy exceeded.",
		"err.no_availability":       "No rooms are available for the selected dates.",
		"err.code_exhausted":        "Could not issue a reservation code. Please try again.",
		"err.invalid_transition":    "The reservation cannot change to that status.",
		"err.unavailable":           "Database not available.",
		"err.unavailable_detail":    "Local development mode - sample data will be shown",
		"err.internal":              "The request could not be processed.",
		"err.unauthorized":          "Authentication required.",
		"err.invalid_credentials":   "Invalid username or password.",
		"err.invalid_pick":          "Pick must be between 1 and 5.",
		"err.unknown_question":      "Unknown question.",
		"err.invalid_body":          "Request body could not be parsed.",
	},
}

// T returns the translated string for key in locale; falls back to the default locale, then
// English, then the key itself.
func T(locale, key string) string {
	for _, loc := range []string{locale, DefaultLocale, "en"} {
		if m, ok := translations[loc]; ok {
			if v, ok := m[key]; ok {
				return v
			}
		}
	}
	return key
}
