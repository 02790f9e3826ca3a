// Package shell runs external tools (the Android build system, signers, adb)
// as opaque subprocesses described by a structured Command. Components depend
// on the Runner interface so that tests can substitute a fake.
package shell
