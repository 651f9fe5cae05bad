package deploy

import "fmt"

// installScript returns the command sequence run on the remote host after
// the transfers land in the remote user's home directory. The script is fed
// to ssh on stdin; its first line escalates to root, so everything after it
// runs in the root shell: create the install directory, move the arrived
// files into it, and install the crontab found there as the active crontab
// (full replacement, not a merge).
func installScript(remoteUser, remoteDir, crontabFile string) string {
	return fmt.Sprintf(`sudo su -
mkdir -p %[2]s
mv /home/%[1]s/* %[2]s/
crontab %[2]s/%[3]s
`, remoteUser, remoteDir, crontabFile)
}

// sshArgs builds the ssh invocation that executes the install script. The
// script itself arrives on stdin, so the argument list is parameterized only
// by the hostname.
func sshArgs(hostname string) []string {
	return []string{hostname, "-t"}
}
