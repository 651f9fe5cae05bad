package doctor

// RunAll runs every dependency check.
func RunAll(exec CommandExecutor, env EnvGetter) []Check {
	return []Check{
		CheckRsync(exec),
		CheckSSH(exec),
		CheckAWSCredentials(exec, env),
	}
}

// AllOK reports whether no check is missing. Warnings do not count as
// failures.
func AllOK(checks []Check) bool {
	for _, c := range checks {
		if c.Status == StatusMissing {
			return false
		}
	}
	return true
}
