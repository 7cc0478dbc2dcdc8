package progression

// CertificateEligible 全部单元完成且考试通过；实习另需项目已通过审核
func CertificateEligible(allComplete, examPassed, requiresProject, projectApproved bool) bool {
	if !allComplete || !examPassed {
		return false
	}
	return !requiresProject || projectApproved
}

// ExamUnlocked 结业测验/考试在全部单元完成后开放
func ExamUnlocked(s State) bool {
	return s.AllComplete
}

// ProjectUnlocked 实习项目在全部标签页完成后可提交
func ProjectUnlocked(s State) bool {
	return s.AllComplete
}
