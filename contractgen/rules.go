package contractgen

import (
	"sort"
	"strconv"
	"strings"

	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/models"
)

var (
	allStandards = []models.Standard{
		models.StandardERC20, models.StandardERC721, models.StandardERC1155,
		models.StandardERC1400, models.StandardERC3525, models.StandardERC4626,
	}
	fungibleStandards = []models.Standard{
		models.StandardERC20, models.StandardERC1400, models.StandardERC3525, models.StandardERC4626,
	}
	issuableStandards = []models.Standard{
		models.StandardERC20, models.StandardERC721, models.StandardERC1155,
		models.StandardERC1400, models.StandardERC3525,
	}
	securityStandards = []models.Standard{
		models.StandardERC20, models.StandardERC1400, models.StandardERC3525,
	}
	slotStandards = []models.Standard{models.StandardERC1400, models.StandardERC3525}
)

// Faixas de precedência: compliance primeiro, depois features, depois governança.
const (
	precedenceCompliance = 100
	precedenceFeature    = 200
	precedenceGovernance = 300
)

func hasBlock(category Category, block string) func(models.TokenSpecification) bool {
	return func(spec models.TokenSpecification) bool {
		switch category {
		case CategoryCompliance:
			return spec.Blocks.HasCompliance(block)
		case CategoryFeature:
			return spec.Blocks.HasFeature(block)
		case CategoryGovernance:
			return spec.Blocks.HasGovernance(block)
		}
		return false
	}
}

func blockRule(category Category, block string, precedence int, standards []models.Standard, render func(models.TokenSpecification) string) FragmentRule {
	return FragmentRule{
		ID:         string(category) + "." + block,
		Category:   category,
		Block:      block,
		AppliesTo:  standards,
		Predicate:  hasBlock(category, block),
		Render:     render,
		Precedence: precedence,
	}
}

func static(text string) func(models.TokenSpecification) string {
	return func(models.TokenSpecification) string { return text }
}

// defaultRules é a tabela declarativa. Todo predicate só testa presença, então
// adicionar um building block nunca remove um fragmento já incluído.
func defaultRules() []FragmentRule {
	whitelist := blockRule(CategoryCompliance, "whitelist", precedenceCompliance+10, allStandards, static(`
    mapping(address => bool) public whitelisted;

    modifier onlyWhitelisted(address account) {
        require(whitelisted[account], "not whitelisted");
        _;
    }

    function setWhitelisted(address account, bool allowed) external {
        whitelisted[account] = allowed;
    }
`))
	whitelist.Predicate = func(spec models.TokenSpecification) bool {
		return spec.Blocks.HasCompliance("whitelist") || spec.Metadata.WhitelistEnabled
	}

	return []FragmentRule{
		blockRule(CategoryCompliance, "kyc", precedenceCompliance, allStandards, static(`
    mapping(address => bool) public kycVerified;

    modifier onlyKycVerified(address account) {
        require(kycVerified[account], "kyc required");
        _;
    }

    function setKycStatus(address account, bool verified) external {
        kycVerified[account] = verified;
    }
`)),
		whitelist,
		blockRule(CategoryCompliance, "jurisdiction", precedenceCompliance+20, allStandards, renderJurisdiction),
		blockRule(CategoryCompliance, "accredited-investor", precedenceCompliance+30, fungibleStandards, static(`
    mapping(address => bool) public accreditedInvestor;

    function setAccredited(address investor, bool accredited) external {
        accreditedInvestor[investor] = accredited;
    }
`)),
		blockRule(CategoryCompliance, "transfer-restrictions", precedenceCompliance+40, issuableStandards, static(`
    bool public transfersRestricted = true;

    function _checkTransfer(address from, address to) internal view {
        if (transfersRestricted && from != address(0) && to != address(0)) {
            revert("transfers restricted");
        }
    }
`)),

		blockRule(CategoryFeature, "mintable", precedenceFeature, issuableStandards, static(`
    function mint(address to, uint256 amount) external {
        _mint(to, amount);
    }
`)),
		blockRule(CategoryFeature, "burnable", precedenceFeature+10, issuableStandards, static(`
    function burn(uint256 amount) external {
        _burn(msg.sender, amount);
    }
`)),
		blockRule(CategoryFeature, "pausable", precedenceFeature+20, allStandards, static(`
    bool public paused;

    modifier whenNotPaused() {
        require(!paused, "paused");
        _;
    }

    function setPaused(bool value) external {
        paused = value;
    }
`)),
		blockRule(CategoryFeature, "capped", precedenceFeature+30, securityStandards, func(spec models.TokenSpecification) string {
			return Interpolate(`
    uint256 public constant CAP = {{Cap}};
`, map[string]string{"Cap": SupplyExpression(spec.TotalSupply, spec.Decimals)})
		}),
		blockRule(CategoryFeature, "snapshot", precedenceFeature+40, []models.Standard{models.StandardERC20, models.StandardERC1400}, static(`
    uint256 public currentSnapshotId;

    function snapshot() external returns (uint256) {
        currentSnapshotId += 1;
        return currentSnapshotId;
    }
`)),
		blockRule(CategoryFeature, "permit", precedenceFeature+50, []models.Standard{models.StandardERC20, models.StandardERC4626}, static(`
    mapping(address => uint256) public nonces;
    bytes32 public constant PERMIT_TYPEHASH =
        keccak256("Permit(address owner,address spender,uint256 value,uint256 nonce,uint256 deadline)");
`)),
		blockRule(CategoryFeature, "convertible", precedenceFeature+60, securityStandards, func(spec models.TokenSpecification) string {
			return Interpolate(`
    uint256 public constant CONVERSION_RATE_BPS = {{RateBps}};

    function convertibleAmount(uint256 amount) public pure returns (uint256) {
        return amount * CONVERSION_RATE_BPS / 10000;
    }
`, map[string]string{"RateBps": strconv.FormatInt(max(ToBasisPoints(spec.Metadata.ConversionRate), 0), 10)})
		}),
		blockRule(CategoryFeature, "redeemable", precedenceFeature+70, fungibleStandards, func(spec models.TokenSpecification) string {
			return Interpolate(`
    uint256 public immutable maturityDate = {{MaturityEpoch}};

    function redeemable() public view returns (bool) {
        return block.timestamp >= maturityDate;
    }
`, map[string]string{"MaturityEpoch": ToEpochSeconds(spec.Metadata.MaturityDate).String()})
		}),
		blockRule(CategoryFeature, "dividends", precedenceFeature+80, securityStandards, static(`
    mapping(address => uint256) public dividendsOwed;

    function claimDividends() external {
        uint256 owed = dividendsOwed[msg.sender];
        dividendsOwed[msg.sender] = 0;
        payable(msg.sender).transfer(owed);
    }
`)),
		blockRule(CategoryFeature, "interest", precedenceFeature+90, slotStandards, static(`
    function accruedInterest(uint256 principal, uint256 rateBps, uint256 elapsed) public pure returns (uint256) {
        return principal * rateBps * elapsed / (10000 * 365 days);
    }
`)),

		blockRule(CategoryGovernance, "access-control", precedenceGovernance, allStandards, static(`
    mapping(bytes32 => mapping(address => bool)) internal _roles;
    bytes32 public constant ADMIN_ROLE = keccak256("ADMIN_ROLE");

    modifier onlyRole(bytes32 role) {
        require(_roles[role][msg.sender], "missing role");
        _;
    }
`)),
		blockRule(CategoryGovernance, "voting", precedenceGovernance+10, []models.Standard{
			models.StandardERC20, models.StandardERC721, models.StandardERC1400, models.StandardERC3525,
		}, static(`
    mapping(address => address) public delegates;

    function delegate(address delegatee) external {
        delegates[msg.sender] = delegatee;
    }
`)),
		blockRule(CategoryGovernance, "timelock", precedenceGovernance+20, allStandards, static(`
    uint256 public constant TIMELOCK_DELAY = 2 days;
    mapping(bytes32 => uint256) public queuedAt;

    function queue(bytes32 operation) external {
        queuedAt[operation] = block.timestamp;
    }
`)),
		blockRule(CategoryGovernance, "multisig", precedenceGovernance+30, allStandards, static(`
    uint256 public requiredApprovals = 2;
    mapping(bytes32 => mapping(address => bool)) public approvals;

    function approve(bytes32 operation) external {
        approvals[operation][msg.sender] = true;
    }
`)),
	}
}

func renderJurisdiction(spec models.TokenSpecification) string {
	codes := normalizeRegions(spec.Metadata.JurisdictionRestrictions)
	const mapping = `
    mapping(string => bool) public restrictedJurisdiction;
`
	if len(codes) == 0 {
		return mapping
	}
	seeds := FormatList(codes, func(code string) string {
		return "        restrictedJurisdiction[" + QuoteLiteral(code) + "] = true;"
	})
	return mapping + `
    function _seedJurisdictions() internal {
` + seeds + `
    }
`
}

// normalizeRegions deixa os códigos em maiúsculas, sem repetição e ordenados.
func normalizeRegions(regions []string) []string {
	seen := make(map[string]struct{}, len(regions))
	out := make([]string, 0, len(regions))
	for _, region := range regions {
		code := strings.ToUpper(strings.TrimSpace(region))
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
