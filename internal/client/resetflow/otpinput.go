package resetflow

// OTPInput collects code digits as they are typed. It is complete exactly
// when OTPLength digits have been entered.
type OTPInput struct {
	digits []byte
}

// Push appends the digits of s, ignoring anything else and anything past
// the sixth digit. It returns Complete().
func (in *OTPInput) Push(s string) bool {
	for i := 0; i < len(s) && len(in.digits) < OTPLength; i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			in.digits = append(in.digits, c)
		}
	}
	return in.Complete()
}

func (in *OTPInput) Complete() bool {
	return len(in.digits) == OTPLength
}

func (in *OTPInput) Len() int {
	return len(in.digits)
}

func (in *OTPInput) Code() string {
	return string(in.digits)
}

func (in *OTPInput) Clear() {
	in.digits = in.digits[:0]
}
