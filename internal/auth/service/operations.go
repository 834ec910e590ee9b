package service

import "authsession/internal/auth/transport"

// GraphQL documents, one per backend operation. Each operation is named after
// its root field so the transport can pick the field out of the response.

const userFields = `
fragment UserFields on User {
  id
  email
  name
  phoneNumber
  role
  isEmailVerified
  isPhoneVerified
  isBusinessVerified
  isIdentityVerified
  isSocialUser
  createdAt
  activation { twoFactorActivated pendingEmail emailChangeToken socialLinkToken }
  avatar { id url }
  business { name number representativeName address verified }
  membership { tier status expiresAt }
}`

const invitationFields = `
fragment InvitationFields on Invitation {
  id
  email
  role
  userType
  status
  expiresAt
  resentCount
  lastResentAt
  invitedBy
  createdAt
}`

const authPayload = `success message requires2FA tempToken accessToken refreshToken expiresIn`

func op(name, document string) transport.Operation {
	return transport.Operation{Name: name, Document: document}
}

// Queries.
var (
	opGetLoggedInUser = op("getLoggedInUser",
		`query getLoggedInUser { getLoggedInUser { ...UserFields } }`+userFields)
	opGet2FAStatus = op("get2FAStatus",
		`query get2FAStatus { get2FAStatus { enabled activatedAt } }`)
	opGetSocialLoginURL = op("getSocialLoginUrl",
		`query getSocialLoginUrl($provider: SocialProvider!) { getSocialLoginUrl(provider: $provider) { url state } }`)
	opGetConnectedSocialProviders = op("getConnectedSocialProviders",
		`query getConnectedSocialProviders { getConnectedSocialProviders { provider email connectedAt } }`)
	opGetIdentityVerificationConfig = op("getIdentityVerificationConfig",
		`query getIdentityVerificationConfig { getIdentityVerificationConfig { storeId channelKey } }`)
	opGetIdentityVerification = op("getIdentityVerification",
		`query getIdentityVerification($identityVerificationId: String!) {
  getIdentityVerification(identityVerificationId: $identityVerificationId) {
    identityVerificationId status verifiedName verifiedPhoneNumber verifiedAt
  }
}`)
	opGenerateVerificationRequest = op("generateVerificationRequest",
		`query generateVerificationRequest { generateVerificationRequest { token expiresAt } }`)
	opValidateBusinessNumber = op("validateBusinessNumber",
		`query validateBusinessNumber($number: String!) { validateBusinessNumber(number: $number) { valid businessName status } }`)
	opGetAllUsers = op("getAllUsers",
		`query getAllUsers($filter: UserFilterInput) {
  getAllUsers(filter: $filter) { users { ...UserFields } total page pageSize }
}`+userFields)
	opGetUserByID = op("getUserById",
		`query getUserById($id: ID!) { getUserById(id: $id) { ...UserFields } }`+userFields)
	opGetUsersStats = op("getUsersStats",
		`query getUsersStats {
  getUsersStats { total active admins business delivery emailVerified twoFactorEnabled pendingInvites }
}`)
	opGetInvitations = op("getInvitations",
		`query getInvitations($filter: InvitationFilterInput) {
  getInvitations(filter: $filter) { invitations { ...InvitationFields } total }
}`+invitationFields)
	opVerifyInvitationToken = op("verifyInvitationToken",
		`query verifyInvitationToken($token: String!) {
  verifyInvitationToken(token: $token) { valid invitation { ...InvitationFields } }
}`+invitationFields)
)

// Mutations.
var (
	opRegisterUser = op("registerUser",
		`mutation registerUser($input: RegisterInput!) { registerUser(input: $input) { success message } }`)
	opVerifyActivationCode = op("verifyActivationCode",
		`mutation verifyActivationCode($input: ActivationCodeInput!) { verifyActivationCode(input: $input) { success message } }`)
	opResendActivationCode = op("resendActivationCode",
		`mutation resendActivationCode($email: String!) { resendActivationCode(email: $email) { success message } }`)
	opLoginStep1 = op("loginStep1",
		`mutation loginStep1($input: LoginInput!) { loginStep1(input: $input) { `+authPayload+` } }`)
	opLoginStep2 = op("loginStep2",
		`mutation loginStep2($input: LoginStep2Input!) { loginStep2(input: $input) { `+authPayload+` } }`)
	opLogout = op("logout",
		`mutation logout { logout { success message } }`)
	opLogoutAll = op("logoutAll",
		`mutation logoutAll { logoutAll { success message } }`)
	opRefreshToken = op("refreshToken",
		`mutation refreshToken($refreshToken: String!) {
  refreshToken(refreshToken: $refreshToken) { success message accessToken refreshToken expiresIn }
}`)
	opChangePassword = op("changePassword",
		`mutation changePassword($input: ChangePasswordInput!) { changePassword(input: $input) { success message } }`)
	opForgotPassword = op("forgotPassword",
		`mutation forgotPassword($email: String!) { forgotPassword(email: $email) { success message } }`)
	opResetPassword = op("resetPassword",
		`mutation resetPassword($input: ResetPasswordInput!) { resetPassword(input: $input) { success message } }`)
	opUpdateUserName = op("updateUserName",
		`mutation updateUserName($name: String!) { updateUserName(name: $name) { success message } }`)
	opRequestEmailChange = op("requestEmailChange",
		`mutation requestEmailChange($newEmail: String!) {
  requestEmailChange(newEmail: $newEmail) { success message pendingEmail expiresAt }
}`)
	opVerifyEmailChange = op("verifyEmailChange",
		`mutation verifyEmailChange($input: VerifyEmailChangeInput!) { verifyEmailChange(input: $input) { success message } }`)
	opUpdatePhoneNumber = op("updatePhoneNumber",
		`mutation updatePhoneNumber($phoneNumber: String!) { updatePhoneNumber(phoneNumber: $phoneNumber) { success message } }`)
	opUpdateBusiness = op("updateBusiness",
		`mutation updateBusiness($input: BusinessInput!) { updateBusiness(input: $input) { success message } }`)
	opDeleteAvatar = op("deleteAvatar",
		`mutation deleteAvatar { deleteAvatar { success message } }`)
	opDeleteAccount = op("deleteAccount",
		`mutation deleteAccount($input: DeleteAccountInput!) { deleteAccount(input: $input) { success message } }`)
	opGenerate2FAQR = op("generate2FAQR",
		`mutation generate2FAQR { generate2FAQR { success message qrCode secret otpauthUrl } }`)
	opEnable2FA = op("enable2FA",
		`mutation enable2FA($code: String!) { enable2FA(code: $code) { success message } }`)
	opDisable2FA = op("disable2FA",
		`mutation disable2FA($password: String) { disable2FA(password: $password) { success message } }`)
	opDisable2FADuringLogin = op("disable2FADuringLogin",
		`mutation disable2FADuringLogin($input: Disable2FADuringLoginInput!) {
  disable2FADuringLogin(input: $input) { `+authPayload+` }
}`)
	opRequestEmergencyEmailCode = op("requestEmergencyEmailCode",
		`mutation requestEmergencyEmailCode($tempToken: String!) { requestEmergencyEmailCode(tempToken: $tempToken) { success message } }`)
	opVerifySocialEmail = op("verifySocialEmail",
		`mutation verifySocialEmail($input: SocialEmailInput!) { verifySocialEmail(input: $input) { `+authPayload+` } }`)
	opResendSocialActivationCode = op("resendSocialActivationCode",
		`mutation resendSocialActivationCode($email: String!) { resendSocialActivationCode(email: $email) { success message } }`)
	opUnlinkSocialAccount = op("unlinkSocialAccount",
		`mutation unlinkSocialAccount($provider: SocialProvider!) { unlinkSocialAccount(provider: $provider) { success message } }`)
	opRequestIdentityVerification = op("requestIdentityVerification",
		`mutation requestIdentityVerification {
  requestIdentityVerification { success message identityVerificationId status expiresAt }
}`)
	opVerifyIdentityVerification = op("verifyIdentityVerification",
		`mutation verifyIdentityVerification($identityVerificationId: String!) {
  verifyIdentityVerification(identityVerificationId: $identityVerificationId) {
    success message identityVerificationId status verifiedName verifiedPhoneNumber verifiedAt
  }
}`)
	opUpdateUserByAdmin = op("updateUserByAdmin",
		`mutation updateUserByAdmin($input: UpdateUserByAdminInput!) {
  updateUserByAdmin(input: $input) { success message user { ...UserFields } }
}`+userFields)
	opDeleteUserByAdmin = op("deleteUserByAdmin",
		`mutation deleteUserByAdmin($id: ID!) { deleteUserByAdmin(id: $id) { success message } }`)
	opInviteUser = op("inviteUser",
		`mutation inviteUser($input: InviteUserInput!) {
  inviteUser(input: $input) { success message invitation { ...InvitationFields } }
}`+invitationFields)
	opCancelInvitation = op("cancelInvitation",
		`mutation cancelInvitation($id: ID!) { cancelInvitation(id: $id) { success message } }`)
	opResendInvitation = op("resendInvitation",
		`mutation resendInvitation($id: ID!) {
  resendInvitation(id: $id) { success message invitation { ...InvitationFields } }
}`+invitationFields)
	opAcceptInvitation = op("acceptInvitation",
		`mutation acceptInvitation($input: AcceptInvitationInput!) { acceptInvitation(input: $input) { `+authPayload+` } }`)
)
