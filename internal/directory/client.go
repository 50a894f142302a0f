package directory

import (
	"fmt"
	"net"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/go-ldap/ldap/v3"
	"go.uber.org/zap"

	"github.com/mti-it/onboarding-service/internal/settings"
)

// userAccountControl value for a normal, enabled account.
const normalAccount = "512"

// DirectoryUser is a search result candidate (manager lookup etc.).
type DirectoryUser struct {
	Name       string `json:"name"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Title      string `json:"title"`
	Department string `json:"department"`
	DN         string `json:"distinguished_name"`
}

// Client performs bind, create and search operations against the directory.
// Connections are not pooled: each operation dials, binds and closes, so a
// dropped connection never poisons later requests.
type Client struct {
	cfg     settings.ActiveDirectorySettings
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient builds a client from the current settings block.
func NewClient(cfg settings.ActiveDirectorySettings, logger *zap.Logger) *Client {
	return &Client{cfg: cfg, timeout: 10 * time.Second, logger: logger}
}

func (c *Client) connect() (*ldap.Conn, error) {
	conn, err := ldap.DialURL(c.cfg.URL, ldap.DialWithDialer(&net.Dialer{Timeout: c.timeout}))
	if err != nil {
		return nil, &BindError{Kind: BindServerUnreachable, Err: err}
	}
	conn.SetTimeout(c.timeout)

	if err := conn.Bind(c.bindName(), c.cfg.BindPassword); err != nil {
		conn.Close()
		return nil, classifyBindError(err)
	}
	return conn, nil
}

// bindName formats the service credential as a UPN or a DN, per settings.
func (c *Client) bindName() string {
	user := c.cfg.BindUsername
	if c.cfg.BindFormat == "dn" {
		return user
	}
	if strings.Contains(user, "@") || c.cfg.Domain == "" {
		return user
	}
	return user + "@" + c.cfg.Domain
}

// VerifyBind checks the configured credential without further operations.
func (c *Client) VerifyBind() error {
	conn, err := c.connect()
	if err != nil {
		return err
	}
	conn.Close()
	return nil
}

// CreateAccount creates the user entry described by spec and adds it to its
// department security group. Group membership is best-effort: a failure there
// is reported but does not undo the created account.
func (c *Client) CreateAccount(spec AccountSpec, password string) (groupWarning error, err error) {
	if password == "" {
		return nil, ErrPasswordRequired
	}

	conn, err := c.connect()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	dn := fmt.Sprintf("CN=%s,%s", ldap.EscapeDN(spec.DisplayName), spec.OUPath)

	add := ldap.NewAddRequest(dn, nil)
	add.Attribute("objectClass", []string{"top", "person", "organizationalPerson", "user"})
	add.Attribute("cn", []string{spec.DisplayName})
	add.Attribute("displayName", []string{spec.DisplayName})
	add.Attribute("sAMAccountName", []string{spec.Username})
	add.Attribute("userPrincipalName", []string{spec.Email})
	add.Attribute("mail", []string{spec.Email})
	if spec.Title != "" {
		add.Attribute("title", []string{spec.Title})
	}
	if spec.Department != "" {
		add.Attribute("department", []string{spec.Department})
	}
	add.Attribute("unicodePwd", []string{encodePassword(password)})
	add.Attribute("userAccountControl", []string{normalAccount})

	if err := conn.Add(add); err != nil {
		return nil, fmt.Errorf("create directory entry %s: %w", dn, err)
	}

	if warn := c.addToGroup(conn, dn, spec.GroupName); warn != nil {
		c.logger.Warn("account created but group assignment failed",
			zap.String("dn", dn),
			zap.String("group", spec.GroupName),
			zap.Error(warn))
		return warn, nil
	}
	return nil, nil
}

func (c *Client) addToGroup(conn *ldap.Conn, memberDN, groupName string) error {
	groupDN, err := c.findGroupDN(conn, groupName)
	if err != nil {
		return err
	}

	modify := ldap.NewModifyRequest(groupDN, nil)
	modify.Add("member", []string{memberDN})
	if err := conn.Modify(modify); err != nil {
		// Already-a-member is a no-op for our purposes.
		if ldap.IsErrorWithCode(err, ldap.LDAPResultEntryAlreadyExists) ||
			ldap.IsErrorWithCode(err, ldap.LDAPResultAttributeOrValueExists) {
			return nil
		}
		return fmt.Errorf("add %s to group %s: %w", memberDN, groupName, err)
	}
	return nil
}

func (c *Client) findGroupDN(conn *ldap.Conn, groupName string) (string, error) {
	req := ldap.NewSearchRequest(
		c.cfg.BaseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 1, int(c.timeout.Seconds()), false,
		fmt.Sprintf("(&(objectClass=group)(cn=%s))", ldap.EscapeFilter(groupName)),
		[]string{"dn"},
		nil,
	)
	res, err := conn.Search(req)
	if err != nil {
		return "", fmt.Errorf("search group %s: %w", groupName, err)
	}
	if len(res.Entries) == 0 {
		return "", fmt.Errorf("group %s not found", groupName)
	}
	return res.Entries[0].DN, nil
}

// Search runs a bounded free-text lookup over directory users.
func (c *Client) Search(query string, limit int) ([]DirectoryUser, error) {
	if limit <= 0 {
		limit = 25
	}

	conn, err := c.connect()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	escaped := ldap.EscapeFilter(query)
	filter := fmt.Sprintf(
		"(&(objectClass=user)(objectCategory=person)(|(cn=*%s*)(sAMAccountName=*%s*)(mail=*%s*)))",
		escaped, escaped, escaped)

	req := ldap.NewSearchRequest(
		c.cfg.BaseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, limit, int(c.timeout.Seconds()), false,
		filter,
		[]string{"cn", "sAMAccountName", "mail", "title", "department"},
		nil,
	)

	res, err := conn.Search(req)
	if err != nil && !ldap.IsErrorWithCode(err, ldap.LDAPResultSizeLimitExceeded) {
		return nil, fmt.Errorf("directory search: %w", err)
	}

	users := make([]DirectoryUser, 0, len(res.Entries))
	for _, entry := range res.Entries {
		users = append(users, DirectoryUser{
			Name:       entry.GetAttributeValue("cn"),
			Username:   entry.GetAttributeValue("sAMAccountName"),
			Email:      entry.GetAttributeValue("mail"),
			Title:      entry.GetAttributeValue("title"),
			Department: entry.GetAttributeValue("department"),
			DN:         entry.DN,
		})
	}
	return users, nil
}

// encodePassword produces the UTF-16LE quoted form AD expects in unicodePwd.
func encodePassword(password string) string {
	quoted := `"` + password + `"`
	units := utf16.Encode([]rune(quoted))
	buf := make([]byte, 0, len(units)*2)
	for _, u := range units {
		buf = append(buf, byte(u), byte(u>>8))
	}
	return string(buf)
}
