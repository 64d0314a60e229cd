package dto

// ── 排行榜 DTO ──

// PersonalRankingEntry 个人排行一项
type PersonalRankingEntry struct {
	Rank                  int    `json:"rank"`
	UserID                string `json:"user_id"`
	Department            string `json:"department"`
	StudyTime             string `json:"studyTime"`
	StudyTimeMinutes      int64  `json:"studyTimeMinutes"`
	WeeklyIncrease        string `json:"weeklyIncrease"`
	WeeklyIncreaseMinutes int64  `json:"weeklyIncreaseMinutes"`
	IsMe                  bool   `json:"isMe"`
}

// PersonalRankingResponse GET /ranking/personal
type PersonalRankingResponse struct {
	MyRank        *int                   `json:"myRank"`
	TotalStudents int                    `json:"totalStudents"`
	Department    string                 `json:"department"`
	MyStudyTime   string                 `json:"myStudyTime"`
	Rankings      []PersonalRankingEntry `json:"rankings"`
}

// DepartmentRankingEntry 学科排行一项
type DepartmentRankingEntry struct {
	Rank                 int    `json:"rank"`
	Department           string `json:"department"`
	TotalStudyTime       string `json:"totalStudyTime"`
	TotalStudyMinutes    int64  `json:"totalStudyMinutes"`
	AvgPerStudent        string `json:"avgPerStudent"`
	AvgPerStudentMinutes int64  `json:"avgPerStudentMinutes"`
	StudentCount         int    `json:"studentCount"`
	IsMyDepartment       bool   `json:"isMyDepartment"`
}

// DepartmentRankingResponse GET /ranking/department
type DepartmentRankingResponse struct {
	MyDepartmentRank      *int                     `json:"myDepartmentRank"`
	MyDepartment          string                   `json:"myDepartment"`
	MyDepartmentTotalTime string                   `json:"myDepartmentTotalTime"`
	Rankings              []DepartmentRankingEntry `json:"rankings"`
}
